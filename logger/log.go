// Package logger is the overlay's process-wide leveled logger: a single
// background goroutine serializes writes, so every component (router,
// traversal, server driver, inbox) can log concurrently without its own
// synchronization.
package logger

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Adapted from bfix-gospel/logger/log.go (AGPL-3.0-or-later), Copyright
// (C) 2011-2023 Bernd Fix: same singleton-goroutine/channel design, same
// level constants and ROTATE command, retargeted message format to the
// "[%.8s] ..." component-tag style bfix-gospel/network/p2p uses for its
// own trace lines.
//----------------------------------------------------------------------

import (
	"fmt"
	"os"
	"time"
)

// Log levels, most to least severe.
const (
	CRITICAL = iota
	SEVERE
	ERROR
	WARN
	INFO
	DBG
)

const (
	cmdRotate = iota
)

type logger struct {
	msgChan chan string
	cmdChan chan int
	logfile *os.File
	started time.Time
	level   int
}

var inst *logger

func init() {
	inst = &logger{
		msgChan: make(chan string, 64),
		cmdChan: make(chan int),
		logfile: os.Stdout,
		started: time.Now(),
		level:   INFO,
	}
	go inst.run()
}

func (l *logger) run() {
	for {
		select {
		case msg := <-l.msgChan:
			ts := time.Now().Format(time.Stamp)
			l.logfile.WriteString(ts + " " + msg)
		case cmd := <-l.cmdChan:
			if cmd == cmdRotate {
				l.rotate()
			}
		}
	}
}

func (l *logger) rotate() {
	if l.logfile == os.Stdout {
		Println(WARN, "[logger] log rotation for stdout is not applicable")
		return
	}
	name := l.logfile.Name()
	l.logfile.Close()
	archived := name + "." + l.started.Format(time.RFC3339)
	os.Rename(name, archived)
	f, err := os.Create(name)
	if err != nil {
		l.logfile = os.Stdout
		return
	}
	l.logfile = f
	l.started = time.Now()
}

// Println logs line at level, dropping it if level is below the current
// threshold.
func Println(level int, line string) {
	if level <= inst.level {
		inst.msgChan <- tag(level) + line + "\n"
	}
}

// Printf logs a formatted message at level.
func Printf(level int, format string, v ...interface{}) {
	if level <= inst.level {
		inst.msgChan <- tag(level) + fmt.Sprintf(format, v...)
	}
}

// LogToFile redirects subsequent output to filename.
func LogToFile(filename string) bool {
	f, err := os.Create(filename)
	if err != nil {
		Println(ERROR, "[logger] failed to enable file-based logging")
		return false
	}
	inst.logfile = f
	inst.started = time.Now()
	Println(INFO, "[logger] file-based logging to '"+filename+"'")
	return true
}

// Rotate asks the logger to archive the current log file and start a new one.
func Rotate() {
	inst.cmdChan <- cmdRotate
}

// SetLevel sets the minimum level that gets logged.
func SetLevel(level int) {
	if level < CRITICAL || level > DBG {
		Printf(WARN, "[logger] unknown log level %d requested -- ignored\n", level)
		return
	}
	inst.level = level
}

// Level returns the current minimum logged level.
func Level() int {
	return inst.level
}

func tag(level int) string {
	switch level {
	case CRITICAL:
		return "{C} "
	case SEVERE:
		return "{S} "
	case ERROR:
		return "{E} "
	case WARN:
		return "{W} "
	case INFO:
		return "{I} "
	case DBG:
		return "{D} "
	default:
		return "{?} "
	}
}
