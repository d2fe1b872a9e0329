// Package matchwatch watches a game client log and turns quickmatch lines
// into an overlay roster.
//
// The Watcher polls the log, reading only the bytes appended since the last
// poll. When a "quickmatchfound" line appears it re-reads the whole file for
// the local session id and steam id, asks the matchmaking service for the
// matches visible to that session, and correlates the local steam id with
// the service's parallel player arrays. The resulting roster goes to a
// Notifier. A "removed player" line ends the match and, when the
// close_overlay_on_match_complete setting is on, hides the overlay after a
// delay.
//
// # Basic Usage
//
//	client, err := remote.NewClient(apiURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w, err := matchwatch.NewWatcher(logPath, client,
//	    matchwatch.WithNotifier(notifier),
//	    matchwatch.WithEventHandler(func(ev matchwatch.Event) {
//	        fmt.Println(ev.Type, ev.MapName)
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//	_ = w.Run(ctx)
//
// To list trigger lines in an existing log without any lookup:
//
//	for ev, err := range matchwatch.ScanFile(ctx, logPath) {
//	    if err != nil {
//	        break
//	    }
//	    fmt.Println(ev.Type, ev.MapName)
//	}
//
// Nothing in the pipeline is fatal: a failed read, a missing identifier or
// an exhausted lookup is logged and the watcher keeps tailing.
package matchwatch
