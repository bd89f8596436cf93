/*
Package liverocket provides a minimal HTTP/1.1 application server built
directly on TCP: no net/http, one request per connection, Connection: close
always.

The pipeline is: the listener accepts connections and hands each to its own
goroutine; the connection handler reads one full request, the parser turns
it into a request context, global middleware runs, the route table resolves
the path and method, route middleware runs, the handler mutates a response
context, and the response builder frames it back onto the wire.

Quick Start

	package main

	import (
	    "github.com/Bhaumik0/Live-rocket/app"
	    "github.com/Bhaumik0/Live-rocket/config"
	    "github.com/Bhaumik0/Live-rocket/core/http"
	    "github.com/Bhaumik0/Live-rocket/core/router"
	)

	func main() {
	    cfg := config.New()
	    application := app.New(cfg)

	    engine := application.Engine()
	    engine.GET("/greet/<name>", func(req *http.Request, resp *http.Response, params router.Params) {
	        resp.Send("Hello, "+params.String("name"), "200 OK")
	    })

	    application.Run()
	}

Route templates support typed placeholders <name> and <type:name> with
types string, int, float, path and uuid.

Modules

  - app: application lifecycle
  - config: flag + env configuration
  - core: listener, connection handling, dispatch
  - core/http: request parsing, request/response contexts, framing
  - core/router: pattern compilation, route table, reverse routing
  - core/middleware: ordered middleware pipeline
  - core/pools: read-buffer pooling
  - view: token-substitution templates
  - orm: sqlite record mapping for application handlers
*/
package liverocket
