// Package http implements the HTTP handlers of the trading dashboard API.
// Handlers stay thin: they bind and validate the request, call a service and
// render the result or an RFC 7807 problem through errors.ErrorHandler.
//
// # Routes
//
//	GET  /                       liveness banner
//	GET  /healthz                health status
//	GET  /version                build information
//	GET  /metrics                Prometheus exposition
//	POST /upload                 multipart CSV upload, optional from/to filter
//	GET  /uploads/{id}           cached analysis, optional from/to filter
//	GET  /uploads/{id}/calendar  month grid, optional month=YYYY-MM
//	GET  /uploads/{id}/export    format=csv|xlsx download
//
// Upload responses carry the upload id in the X-Upload-ID and ETag headers.
//
// # Testing
//
// Handlers depend on JournalServiceInterface so tests can use a testify mock:
//
//	svc := new(MockJournalService)
//	svc.On("Get", mock.Anything, id, mock.Anything).Return(result, nil)
package http
