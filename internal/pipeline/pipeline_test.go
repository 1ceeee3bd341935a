package pipeline

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestDisplayPaths(t *testing.T) {
	got := DisplayPaths([]string{
		"/maps/b.vmf",
		"/maps/sub/../a.vmf",
		"/maps/a.vmf",
		"/other/c.vmf",
		"",
	}, "/maps")
	want := []string{"/other/c.vmf", "a.vmf", "b.vmf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DisplayPaths = %v, want %v", got, want)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Emit(&r, Event{File: "a.vmf", Stage: StageTree, Status: StatusWorking})
		}()
	}
	wg.Wait()
	if n := len(r.Events()); n != 8 {
		t.Fatalf("recorded %d events, want 8", n)
	}
	Emit(nil, Event{}) // nil sink is allowed
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{Event{Status: StatusQueued}, false},
		{Event{Status: StatusWorking, Stage: StageExtract}, false},
		{Event{Status: StatusDone}, true},
		{Event{Status: StatusCached}, true},
		{Event{Status: StatusError, Err: errors.New("x")}, true},
	}
	for _, tt := range tests {
		if got := tt.ev.Terminal(); got != tt.want {
			t.Errorf("%+v.Terminal() = %v", tt.ev, got)
		}
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 2)
	sink := ChannelSink{Ch: ch}
	EmitQueued(sink, []string{"a.vmf", "b.vmf"})
	close(ch)
	var files []string
	for ev := range ch {
		files = append(files, ev.File)
	}
	if !reflect.DeepEqual(files, []string{"a.vmf", "b.vmf"}) {
		t.Fatalf("files = %v", files)
	}
	ChannelSink{}.OnEvent(Event{})
}
