// Package storage writes the artifacts of a batch run into the output
// directory: accounts.csv and posts.csv while scraping, and
// follower-network.gdf once collection is done.
//
//	manager, err := storage.NewManager(outputDir)
//	if err != nil {
//	    // errors.Is(err, storage.ErrInvalidOutputDir)
//	}
//	sink, err := manager.OpenCSV()
//	...
//	sink.Close()
//	manager.WriteGraph(g)
//
// The graph file is written to a temporary name and renamed into place, so
// an aborted run never leaves a truncated graph behind.
package storage
