package snapstore

import (
	"fmt"

	"github.com/huangsam/typegate/schema"
)

// PrintSnapshotStatus prints snapshot store status information.
func PrintSnapshotStatus(status schema.SnapshotStatus) {
	fmt.Printf("Snapshot Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		fmt.Printf("Last Snapshot: %s\n", status.LastSnapshot.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Snapshot: %s\n", status.OldestSnapshot.Format("2006-01-02 15:04:05"))
	}
}
