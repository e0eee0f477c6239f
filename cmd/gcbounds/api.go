package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mastercactapus/gcbounds/gcode"
	"github.com/mastercactapus/gcbounds/toolpath"
	"github.com/mastercactapus/gcbounds/volume"
	"github.com/sirupsen/logrus"
)

// reportTTL is how long a finished report is kept if nobody fetches it.
const reportTTL = 30 * time.Minute

type api struct {
	http.Handler
	dataDir string
	def     volume.Descriptor
	log     logrus.FieldLogger
	sse     *sse.Server
	ws      websocket.Upgrader

	mx     sync.Mutex
	jobs   map[string]*job
	jobTTL time.Duration
}

// job is an analysis running in the background. rep and err are
// only valid once done is closed.
type job struct {
	id   string
	done chan struct{}
	rep  *toolpath.Report
	err  error
}

type progress struct {
	Line    int `json:"line"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

func newAPI(dir string, def volume.Descriptor, logger logrus.FieldLogger) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		dataDir: dir,
		def:     def,
		log:     logger,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(io.Discard, "", 0),
		}),
		ws: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		jobs:   make(map[string]*job),
		jobTTL: reportTTL,
	}

	r.HandleFunc("/data/{name:.+}", a.getFile).Methods("GET")
	r.HandleFunc("/data/{name:.+}", a.putFile).Methods("PUT")
	r.HandleFunc("/data/{name:.+}", a.deleteFile).Methods("DELETE")

	r.HandleFunc("/api/analyze", a.analyze).Methods("POST")
	r.HandleFunc("/api/reports/{id}", a.getReport).Methods("GET")

	r.Handle("/events/{id}", a.sse)
	r.HandleFunc("/ws/analyze", a.stream)

	return a
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		return false, ""
	}
	dir := string(base)
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

func (a *api) fileName(w http.ResponseWriter, name string) (string, bool) {
	ok, full := safePath(a.dataDir, name)
	if !ok || name == "" {
		a.log.WithField("name", name).Warn("invalid path")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return "", false
	}
	return full, true
}

func (a *api) getFile(w http.ResponseWriter, req *http.Request) {
	name, ok := a.fileName(w, mux.Vars(req)["name"])
	if !ok {
		return
	}
	http.ServeFile(w, req, name)
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	name, ok := a.fileName(w, mux.Vars(req)["name"])
	if !ok {
		return
	}
	err := os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		a.log.WithError(err).WithField("file", name).Error("create directory")
		http.Error(w, err.Error(), 500)
		return
	}
	f, err := os.Create(name)
	if err != nil {
		a.log.WithError(err).WithField("file", name).Error("create")
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		a.log.WithError(err).WithField("file", name).Error("write")
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	name, ok := a.fileName(w, mux.Vars(req)["name"])
	if !ok {
		return
	}
	err := os.Remove(name)
	if os.IsNotExist(err) {
		http.NotFound(w, req)
		return
	}
	if err != nil {
		a.log.WithError(err).WithField("file", name).Error("delete")
		http.Error(w, err.Error(), 500)
		return
	}
}

// bedVolume returns the volume described by data, or the default if data
// is empty or an empty object.
func (a *api) bedVolume(data []byte) (volume.Volume, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return volume.New(a.def)
	}

	var raw map[string]json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return volume.Volume{}, err
	}
	if len(raw) == 0 {
		return volume.New(a.def)
	}

	var d volume.Descriptor
	err = json.Unmarshal(data, &d)
	if err != nil {
		return volume.Volume{}, err
	}
	return volume.New(d)
}

func (a *api) analyze(w http.ResponseWriter, req *http.Request) {
	name, ok := a.fileName(w, req.URL.Query().Get("file"))
	if !ok {
		return
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := a.bedVolume(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := os.Open(name)
	if os.IsNotExist(err) {
		http.NotFound(w, req)
		return
	}
	if err != nil {
		a.log.WithError(err).WithField("file", name).Error("open")
		http.Error(w, err.Error(), 500)
		return
	}

	total, err := gcode.CountLines(f)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		f.Close()
		a.log.WithError(err).WithField("file", name).Error("read")
		http.Error(w, err.Error(), 500)
		return
	}

	j := &job{id: uuid.New().String(), done: make(chan struct{})}
	a.mx.Lock()
	a.jobs[j.id] = j
	a.mx.Unlock()

	go func() {
		defer f.Close()
		a.run(j, v, gcode.NewParser(f), total)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"id": j.id})
}

func (a *api) send(id, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.WithError(err).Error("marshal event")
		return
	}
	a.sse.SendMessage("/events/"+id, sse.NewMessage("", string(data), event))
}

func (a *api) run(j *job, v volume.Volume, r gcode.Reader, total int) {
	jl := a.log.WithField("job", j.id)

	an := toolpath.New(toolpath.Config{
		Volume:     v,
		Reader:     r,
		TotalLines: total,
		Observer: toolpath.ObserverFunc(func(line, total int) {
			p := progress{Line: line, Total: total}
			if total > 0 {
				p.Percent = line * 100 / total
			}
			a.send(j.id, "progress", p)
		}),
		Logger: jl,
	})

	rep, err := an.Run(context.Background())
	j.rep, j.err = rep, err
	close(j.done)
	time.AfterFunc(a.jobTTL, func() { a.dropJob(j.id) })

	if err != nil {
		jl.WithError(err).Error("analysis failed")
		a.send(j.id, "error", map[string]string{"error": err.Error()})
		return
	}
	a.send(j.id, "done", rep.Stats)
}

func (a *api) dropJob(id string) {
	a.mx.Lock()
	delete(a.jobs, id)
	a.mx.Unlock()
}

// getReport returns a finished report once; it is forgotten after that.
func (a *api) getReport(w http.ResponseWriter, req *http.Request) {
	a.mx.Lock()
	j := a.jobs[mux.Vars(req)["id"]]
	a.mx.Unlock()
	if j == nil {
		http.NotFound(w, req)
		return
	}

	select {
	case <-j.done:
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
		return
	}
	a.dropJob(j.id)

	if j.err != nil {
		http.Error(w, j.err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(j.rep)
	if err != nil {
		a.log.WithError(err).Error("encode report")
	}
}
