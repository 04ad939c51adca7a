/*
Copyright 2019 Oraspace, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oraspace/lander/lib/constants"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Progress is a console progress reporter for the deployment workflow
type Progress interface {
	// NextStep prints the message for the next workflow step
	NextStep(format string, args ...interface{})
	// PrintSubStep outputs the message as a sub-step of the current step
	PrintSubStep(format string, args ...interface{})
	// PrintInfo outputs the specified info message in color
	PrintInfo(format string, args ...interface{})
	// PrintWarn outputs the specified warning message in color
	PrintWarn(err error, format string, args ...interface{})
	// Stop stops the progress and prints the total elapsed time
	Stop()
}

// NewProgress returns a console progress reporter for a workflow with the
// given number of steps. If silent is set all output is discarded.
func NewProgress(title string, steps int, silent bool) Progress {
	if silent {
		return &nopProgress{}
	}
	return &consoleProgress{
		title: title,
		steps: steps,
		start: time.Now().UTC(),
		out:   os.Stdout,
	}
}

type consoleProgress struct {
	title   string
	steps   int
	current int
	start   time.Time
	out     io.Writer
}

// NextStep prints the message for the next workflow step with a timestamp
// and the step counter
func (p *consoleProgress) NextStep(format string, args ...interface{}) {
	p.current += 1
	message := fmt.Sprintf(format, args...)
	if p.steps > 0 {
		message = fmt.Sprintf("* [%v/%v] %v", p.current, p.steps, message)
	}
	p.println(message)
}

// PrintSubStep outputs the message as a sub-step of the current step
func (p *consoleProgress) PrintSubStep(format string, args ...interface{}) {
	p.println(fmt.Sprintf("\t%v", fmt.Sprintf(format, args...)))
}

// PrintInfo outputs the specified info message in color
func (p *consoleProgress) PrintInfo(format string, args ...interface{}) {
	p.println(color.BlueString(format, args...))
}

// PrintWarn outputs the specified warning message in color
func (p *consoleProgress) PrintWarn(err error, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if err != nil {
		message = fmt.Sprintf("%v (%v)", message, err)
	}
	p.println(color.YellowString("%v", message))
}

// Stop prints the total elapsed time of the workflow
func (p *consoleProgress) Stop() {
	p.println(color.GreenString("%v finished, started %v",
		p.title, humanize.Time(p.start)))
}

func (p *consoleProgress) println(message string) {
	timestamp := color.New(color.Bold).Sprint(
		time.Now().UTC().Format(constants.HumanDateFormatSeconds))
	fmt.Fprintf(p.out, "%v\t%v\n", timestamp, message)
}

// DiscardProgress is a progress reporter that discards all progress output
var DiscardProgress Progress = &nopProgress{}

type nopProgress struct{}

func (*nopProgress) NextStep(format string, args ...interface{})             {}
func (*nopProgress) PrintSubStep(format string, args ...interface{})         {}
func (*nopProgress) PrintInfo(format string, args ...interface{})            {}
func (*nopProgress) PrintWarn(err error, format string, args ...interface{}) {}
func (*nopProgress) Stop()                                                   {}
