// Package api handles incoming HTTP requests: request decoding and
// validation, calls into the application services, and response
// formatting. Booking handlers expect the request gate to have placed the
// verified intern id in the request context.
package api
