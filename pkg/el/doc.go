// Package el provides builders for fiber element descriptions.
//
// Element functions take a variadic list of arguments that can be
// attributes, listeners, child elements, slices of either, or plain
// strings (which become text children). nil arguments are ignored so
// optional pieces can be written inline:
//
//	el.Ul(el.Class("tasks"),
//	    el.Map(tasks, func(t Task) *fiber.Element {
//	        return el.Li(t.Title, el.Button(el.OnClick(remove(t.ID)), "x"))
//	    }),
//	    el.If(len(tasks) == 0, el.P("Nothing to do")),
//	)
//
// Each call to an On* helper wraps the function in a new
// *fiber.EventHandler, so re-rendering replaces the listener. Use On with a
// handler kept across renders to keep the same listener attached.
package el
