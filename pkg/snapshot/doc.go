// Package snapshot stores HTML snapshots of committed render trees.
//
// A Recorder is attached to a scheduler through its result handler. It
// serializes each committed tree on the render goroutine, then hands the
// markup to a Sink from its own worker so slow uploads never hold up the
// render loop.
//
//	rec := snapshot.NewRecorder(snapshot.NewS3Sink(client, "bucket", "arbor/"))
//	go rec.Run(ctx)
//	sched := scheduler.New(host, loop, scheduler.WithResultHandler(rec.Capture))
package snapshot
