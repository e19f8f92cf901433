// Package errors provides the structured error type shared by the authoring engine.
//
// Every error crossing a package boundary carries a Code, a user-facing
// Message, an optional Cause and free-form metadata:
//
//	err := errors.NotFoundf("location %q not found", locationID).
//	    WithMeta("draft_id", draftID)
//
// Wrapping keeps the code of an already structured error:
//
//	if err := client.UpdateLocation(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save location")
//	}
//
// # Codes and transports
//
// Codes map onto HTTP status codes in both directions (Code.HTTPStatus and
// CodeFromHTTPStatus) so the HTTP persistence adapter can turn a service
// response back into a coded error.
//
// # Validation
//
// ValidationBuilder accumulates field-level problems. Build returns nil when
// nothing was recorded, or an InvalidArgument error whose "validation_errors"
// metadata holds every field message:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", draft.Name, vb)
//	errors.ValidateEnum("backend", backend, []string{"redis", "http"}, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Taxonomy used by the engine
//
//   - InvalidArgument: validation failures, malformed attachments, bad input
//   - FailedPrecondition: an operation that needs a parent identity or a live session
//   - NotFound: a reconciliation target or stored entity that does not exist
//   - OutOfRange: an ability score or level outside its bounds
//   - Unavailable / Internal: persistence failures
//   - Canceled: work abandoned because the session was discarded
package errors
