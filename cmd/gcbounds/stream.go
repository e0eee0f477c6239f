package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mastercactapus/gcbounds/gcode"
	"github.com/mastercactapus/gcbounds/toolpath"
)

// streamMessage is sent to websocket clients. Exactly one field is set.
type streamMessage struct {
	Violation *toolpath.Violation `json:"violation,omitempty"`
	Done      bool                `json:"done,omitempty"`
	Stats     *toolpath.Stats     `json:"stats,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// lineSplitter turns arbitrary chunks of text into numbered lines.
type lineSplitter struct {
	partial string
	n       int
}

func (s *lineSplitter) line(text string) gcode.Line {
	s.n++
	return gcode.Line{Number: s.n, Text: strings.TrimRight(text, "\r")}
}

// Write returns the complete lines in chunk, holding back any trailing
// partial line.
func (s *lineSplitter) Write(chunk string) []gcode.Line {
	parts := strings.Split(s.partial+chunk, "\n")
	s.partial = parts[len(parts)-1]

	lines := make([]gcode.Line, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		lines = append(lines, s.line(p))
	}
	return lines
}

// Flush returns the held back partial line, if any.
func (s *lineSplitter) Flush() []gcode.Line {
	if s.partial == "" {
		return nil
	}
	l := s.line(s.partial)
	s.partial = ""
	return []gcode.Line{l}
}

func isDone(msg []byte) bool {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '{' {
		return false
	}
	var m struct{ Done bool }
	return json.Unmarshal(msg, &m) == nil && m.Done
}

// stream analyzes G-code sent over a websocket. The first message selects the
// build volume, every following message is G-code, until {"done":true}.
func (a *api) stream(w http.ResponseWriter, req *http.Request) {
	conn, err := a.ws.Upgrade(w, req, nil)
	if err != nil {
		a.log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}
	v, err := a.bedVolume(msg)
	if err != nil {
		conn.WriteJSON(streamMessage{Error: err.Error()})
		return
	}

	an := toolpath.New(toolpath.Config{Volume: v, Logger: a.log.WithField("remote", req.RemoteAddr)})
	var s lineSplitter

	check := func(lines []gcode.Line) error {
		for _, l := range lines {
			vio := an.Step(l)
			if vio == nil {
				continue
			}
			err := conn.WriteJSON(streamMessage{Violation: vio})
			if err != nil {
				return err
			}
		}
		return nil
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				a.log.WithError(err).Warn("websocket read")
			}
			return
		}

		if isDone(msg) {
			err = check(s.Flush())
			if err == nil {
				stats := an.Report().Stats
				err = conn.WriteJSON(streamMessage{Done: true, Stats: &stats})
			}
			if err != nil {
				a.log.WithError(err).Warn("websocket write")
			}
			return
		}

		err = check(s.Write(string(msg)))
		if err != nil {
			a.log.WithError(err).Warn("websocket write")
			return
		}
	}
}
