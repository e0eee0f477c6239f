package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/mastercactapus/gcbounds/config"
	"github.com/mastercactapus/gcbounds/gcode"
	"github.com/mastercactapus/gcbounds/report"
	"github.com/mastercactapus/gcbounds/toolpath"
	"github.com/mastercactapus/gcbounds/volume"
	"github.com/sirupsen/logrus"
)

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithError(err).Warn("invalid log level, using info")
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve(cfg, log, os.Args[2:])
		return
	}

	os.Exit(check(cfg, log, os.Args[1:]))
}

func serve(cfg *config.Config, log *logrus.Logger, args []string) {
	fs := flag.NewFlagSet("gcbounds serve", flag.ExitOnError)
	vf := addVolumeFlags(fs, cfg.Profile)
	addr := fs.String("addr", cfg.Addr, "Address to bind the server to.")
	dir := fs.String("dir", cfg.DataDir, "Data directory to use.")
	fs.Parse(args)

	// a server without a default volume requires one per request
	def, err := vf.Descriptor(fs)
	if err != nil {
		log.WithError(err).Fatal("load build volume")
	}
	if _, err := volume.New(def); err != nil {
		log.WithError(err).Warn("no usable default build volume, requests must provide one")
	}

	api := newAPI(*dir, def, log)

	log.WithField("addr", *addr).Info("listening")
	err = http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
			"remote": req.RemoteAddr,
		}).Info("request")
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.WithError(err).Fatal("serve")
	}
}

func check(cfg *config.Config, log *logrus.Logger, args []string) int {
	fs := flag.NewFlagSet("gcbounds", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: gcbounds [flags] <file.gcode>")
		fmt.Fprintln(fs.Output(), "       gcbounds serve [flags]")
		fs.PrintDefaults()
	}
	vf := addVolumeFlags(fs, cfg.Profile)
	format := fs.String("format", "text", "Report format (text or json).")
	out := fs.String("out", "", "Also write the full text report to this file.")
	limit := fs.Int("limit", report.DefaultLimit, "Number of violations to list in the text report (0 for all).")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if *format != "text" && *format != "json" {
		log.Errorf("unknown format '%s'", *format)
		return 2
	}

	d, err := vf.Descriptor(fs)
	if err != nil {
		log.WithError(err).Error("load build volume")
		return 1
	}
	v, err := volume.New(d)
	if err != nil {
		log.WithError(err).Error("invalid build volume")
		return 1
	}

	name := fs.Arg(0)
	f, err := os.Open(name)
	if err != nil {
		log.WithError(err).Error("open input")
		return 1
	}
	defer f.Close()

	total, err := gcode.CountLines(f)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		log.WithError(err).Error("read input")
		return 1
	}

	log.WithFields(logrus.Fields{"file": name, "lines": total, "volume": v}).Info("analyzing")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a := toolpath.New(toolpath.Config{
		Volume:     v,
		Reader:     gcode.NewParser(f),
		TotalLines: total,
		Observer:   toolpath.ObserverFunc(printProgress),
		Logger:     log,
	})
	rep, runErr := a.Run(ctx)
	if total >= toolpath.ProgressInterval {
		fmt.Fprintln(os.Stderr)
	}
	if runErr != nil {
		log.WithError(runErr).Error("analysis stopped, report is partial")
	}

	if *format == "json" {
		err = report.WriteJSON(os.Stdout, rep)
	} else {
		err = report.WriteText(os.Stdout, rep, *limit)
	}
	if err != nil {
		log.WithError(err).Error("write report")
		return 1
	}

	if *out != "" {
		err = writeReportFile(*out, rep)
		if err != nil {
			log.WithError(err).Error("write report file")
			return 1
		}
		log.WithField("file", *out).Info("report saved")
	}

	if runErr != nil {
		return 1
	}
	return 0
}

func printProgress(line, total int) {
	if total <= 0 {
		fmt.Fprintf(os.Stderr, "\rAnalyzed %d lines", line)
		return
	}
	fmt.Fprintf(os.Stderr, "\rAnalyzing... %d%%", line*100/total)
}

func writeReportFile(name string, rep *toolpath.Report) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = report.WriteText(f, rep, 0)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
