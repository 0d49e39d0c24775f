package live

import (
	"reflect"
	"testing"
)

func TestParseControlClientContent(t *testing.T) {
	msg, ok := parseControl([]byte(`{"clientContent":{"turns":"what can I cook","turnComplete":true}}`))
	if !ok {
		t.Fatal("expected a control message")
	}
	turn, ok := msg.(ContentTurn)
	if !ok {
		t.Fatalf("message type = %T", msg)
	}
	if turn.Text != "what can I cook" || !turn.Final {
		t.Fatalf("turn = %+v", turn)
	}
}

// A single functionResponses object must behave exactly like a one-element
// list.
func TestParseControlToolResponseShapes(t *testing.T) {
	single, ok := parseControl([]byte(`{"toolResponse":{"functionResponses":{"name":"f","id":"1"}}}`))
	if !ok {
		t.Fatal("single object rejected")
	}
	list, ok := parseControl([]byte(`{"toolResponse":{"functionResponses":[{"name":"f","id":"1"}]}}`))
	if !ok {
		t.Fatal("list rejected")
	}
	if !reflect.DeepEqual(single, list) {
		t.Fatalf("single = %+v, list = %+v", single, list)
	}
}

func TestParseControlToolResponseResult(t *testing.T) {
	msg, _ := parseControl([]byte(`{"toolResponse":{"functionResponses":[{"name":"f","id":"1","response":{"count":2}}]}}`))
	tr := msg.(ToolResponse)
	if len(tr.Responses) != 1 {
		t.Fatalf("responses = %+v", tr.Responses)
	}
	if tr.Responses[0].Result["count"] != float64(2) {
		t.Fatalf("result = %+v", tr.Responses[0].Result)
	}
}

func TestParseControlUnknownFrames(t *testing.T) {
	cases := []string{
		`{"something":"else"}`,
		`not json`,
		`{"toolResponse":{"functionResponses":"nope"}}`,
	}
	for _, raw := range cases {
		if _, ok := parseControl([]byte(raw)); ok {
			t.Fatalf("frame %q should be dropped", raw)
		}
	}
}
