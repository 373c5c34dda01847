// Package http exposes dirindex listings over HTTP.
//
// Middleware renders a listing when a GET or HEAD request resolves to an
// eligible directory under a mount and hands every other request, untouched,
// to the next handler. StaticFiles is the stage it normally hands off to:
// it serves regular files below the same mount with http.ServeContent.
//
// # Request Flow
//
//  1. Method gate: anything but GET and HEAD is passed on
//  2. Mount match and access policy: no match or not allowed is passed on
//  3. Sanitization: an invalid path is answered with 400
//  4. Directory check: not a directory is passed on
//  5. Listing: 200 with a text/html body
//
// Requests that are passed on look exactly like requests for paths that do
// not exist, so clients cannot probe which directories are listable.
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    Routes: []http.Route{{Mount: mount, Lister: lister, Files: store}},
//	}
//	handler := http.NewHandler(&handlerCfg)
//	http.ListenAndServe(":5709", handler.Router())
//
// Middleware can also be used on its own in front of any other handler:
//
//	router.Use(http.Middleware(mount, lister))
//
// # Errors
//
// Errors are written as a small HTML page, or as JSON when the request's
// Accept header asks for application/json.
package http
