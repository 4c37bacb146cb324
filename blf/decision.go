package blf

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// Standing decision for every file of one kind
type Decision int

const (
	DecisionAsk Decision = iota
	DecisionAlwaysConvert
	DecisionAlwaysSkip
)

func (d Decision) String() string {
	switch d {
	case DecisionAlwaysConvert:
		return "always"
	case DecisionAlwaysSkip:
		return "skip"
	}
	return "ask"
}

func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ask":
		return DecisionAsk, nil
	case "always", "convert":
		return DecisionAlwaysConvert, nil
	case "skip", "ignore", "never":
		return DecisionAlwaysSkip, nil
	}
	return DecisionAsk, fmt.Errorf("Unknown decision: %s (expected ask, always or skip)", s)
}

// Answer to "convert this file?"
type Response int

const (
	ResponseNo        Response = iota // Skip just this file
	ResponseYes                       // Convert just this file
	ResponseAllOfKind                 // Convert this and every later file of the kind
	ResponseIgnoreAll                 // Skip this and every later file of the kind
)

// y / n / a / i, case insensitive. Anything unrecognized is a no.
func ParseResponse(s string) Response {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return ResponseYes
	case "a", "all":
		return ResponseAllOfKind
	case "i", "ignore":
		return ResponseIgnoreAll
	}
	return ResponseNo
}

func (r Response) String() string {
	switch r {
	case ResponseYes:
		return "y"
	case ResponseAllOfKind:
		return "a"
	case ResponseIgnoreAll:
		return "i"
	}
	return "n"
}

type DecisionMap map[ContentKind]Decision

// Something that can answer the per file question
type Decider interface {
	Decide(file string, ext *Extraction) (Response, error)
}

// Always gives the same answer. Used for --yes and in tests.
type FixedDecider struct {
	Response Response
}

func (d *FixedDecider) Decide(file string, ext *Extraction) (Response, error) {
	return d.Response, nil
}

const ConsolePromptText = "Would you like to convert this file? (y)es / (n)o / (a)ll of type / (i)gnore all of type: "

// Asks on Out and reads one line per question from In
type ConsolePrompter struct {
	Out    io.Writer
	reader *bufio.Reader
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{Out: out, reader: bufio.NewReader(in)}
}

func (p *ConsolePrompter) Decide(file string, ext *Extraction) (Response, error) {
	if _, err := io.WriteString(p.Out, ConsolePromptText); err != nil {
		return ResponseNo, err
	}
	line, err := p.reader.ReadString('\n')
	if err == io.EOF {
		// Closed input is no answer, which means no
		return ParseResponse(line), nil
	}
	if err != nil {
		return ResponseNo, err
	}
	return ParseResponse(line), nil
}

// Caller side decision state for one batch. Not safe for concurrent use.
type Session struct {
	Decisions DecisionMap
	Decider   Decider
}

func NewSession(decider Decider) *Session {
	return &Session{
		Decisions: make(DecisionMap),
		Decider:   decider,
	}
}

// Decide whether to write out the payload of the given extraction, asking
// the decider when there's no standing decision for the kind. Answering
// "all" or "ignore" records a standing decision.
func (s *Session) ShouldConvert(file string, ext *Extraction) (bool, error) {
	if ext.Kind == KindUnknown {
		return false, nil
	}
	switch s.Decisions[ext.Kind] {
	case DecisionAlwaysSkip:
		log.Printf("Skipping all files of type: %s\n", ext.Metadata.HeaderType)
		return false, nil
	case DecisionAlwaysConvert:
		log.Printf("Automatically converting all files of type: %s\n", ext.Metadata.HeaderType)
		return true, nil
	}
	if s.Decider == nil {
		return false, fmt.Errorf("No decider set and no standing decision for %s", ext.Kind)
	}
	response, err := s.Decider.Decide(file, ext)
	if err != nil {
		return false, err
	}
	switch response {
	case ResponseAllOfKind:
		s.Decisions[ext.Kind] = DecisionAlwaysConvert
		return true, nil
	case ResponseIgnoreAll:
		s.Decisions[ext.Kind] = DecisionAlwaysSkip
		log.Printf("Skipping all files of type: %s\n", ext.Metadata.HeaderType)
		return false, nil
	case ResponseYes:
		return true, nil
	}
	return false, nil
}
