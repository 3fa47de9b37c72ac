// Package files discovers trading journal exports on disk.
//
// The processor CLI uses it when pointed at a directory instead of a single
// file:
//
//	discovery := files.NewDiscovery("", ".csv")
//	latest, err := discovery.LatestJournal("exports")
package files
