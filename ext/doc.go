// Package ext defines the extension system for Beacon.
//
// Extensions are notified of lifecycle events and can react to them —
// recording metrics, forwarding diagnostics, writing audit logs, etc.
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnTaskDropped(ctx context.Context, taskName string, queueLen int) error {
//	    log.Printf("dropped %s with %d tasks queued", taskName, queueLen)
//	    return nil
//	}
//
// # Dispatcher Lifecycle Hooks
//
//   - [TaskDropped] — the pre-init queue was full and a task was discarded
//   - [FlushCompleted] — the pre-init queue drained normally
//   - [FlushTimedOut] — the flush deadline elapsed and queued tasks were abandoned
//
// # SDK Lifecycle Hooks
//
//   - [PingSubmitted] — a ping document was assembled and handed to the uploader
//   - [UploadToggled] — the upload-enabled flag changed
//   - [Shutdown] — the SDK is shutting down gracefully
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface.
package ext
