package arbor_test

import (
	"context"
	"testing"
	"time"

	"github.com/vango-dev/arbor"
	"github.com/vango-dev/arbor/pkg/el"
	"github.com/vango-dev/arbor/pkg/memdom"
)

func TestEngineRendersOnLoop(t *testing.T) {
	doc := memdom.New()
	body := doc.CreateElement("body")

	type outcome struct {
		err  error
		html string
	}
	results := make(chan outcome, 4)
	engine := arbor.New(doc, arbor.WithResultHandler(func(r arbor.Result) {
		results <- outcome{err: r.Err, html: body.InnerHTML()}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	wait := func() outcome {
		t.Helper()
		select {
		case o := <-results:
			return o
		case <-time.After(5 * time.Second):
			t.Fatal("no result")
			return outcome{}
		}
	}

	engine.Render(el.Div(el.H1("Hello")), body)
	o := wait()
	if o.err != nil {
		t.Fatalf("first pass: %v", o.err)
	}
	if o.html != "<div><h1>Hello</h1></div>" {
		t.Errorf("html = %s", o.html)
	}

	engine.Render(el.Div(el.H1("Hello"), el.P("again")), body)
	o = wait()
	if o.err != nil {
		t.Fatalf("second pass: %v", o.err)
	}
	if o.html != "<div><h1>Hello</h1><p>again</p></div>" {
		t.Errorf("html = %s", o.html)
	}
}

func TestEngineEventRoundTrip(t *testing.T) {
	doc := memdom.New()
	body := doc.CreateElement("body")
	done := make(chan string, 4)

	var engine *arbor.Engine
	count := 0
	var view func() *arbor.Element
	view = func() *arbor.Element {
		return el.Button(el.OnClick(func(arbor.Event) {
			count++
			engine.Scheduler.Render(view(), body)
		}), el.Textf("%d", count))
	}
	engine = arbor.New(doc, arbor.WithResultHandler(func(r arbor.Result) {
		done <- body.InnerHTML()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	engine.Render(view(), body)
	<-done

	engine.Dispatch(func() {
		doc.Dispatch(body.Find(memdom.ByTag("button")), "click", "")
	})
	select {
	case html := <-done:
		if html != `<button data-on-click="true">1</button>` {
			t.Errorf("html = %s", html)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no re-render after click")
	}
}
