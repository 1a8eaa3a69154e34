package p4

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultChange is the pending changelist every client has.
const DefaultChange = "default"

// OpenedFile is one record of "p4 opened".
type OpenedFile struct {
	Change    string `json:"change"`
	DepotFile string `json:"depotFile"`
	Action    string `json:"action"`
	// Rev is the workspace revision, empty when p4 did not report one.
	Rev string `json:"rev,omitempty"`
}

// Annotation is one line of "p4 annotate -c -u".
type Annotation struct {
	Change string `json:"change"`
	User   string `json:"user"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// Client wraps the p4 operations used by the commands.
type Client struct {
	runner Runner
}

// NewClient returns a client that runs commands through r.
func NewClient(r Runner) *Client {
	return &Client{runner: r}
}

var (
	ztagLineRE   = regexp.MustCompile(`^\.\.\.\s+(\w+)\s+(.+)$`)
	createdRE    = regexp.MustCompile(`Change (\d+) created`)
	annotateRE   = regexp.MustCompile(`^(\d+):\s+(\S+)\s+(\d{4}/\d{2}/\d{2})\s?(.*)$`)
	errNoCreated = errors.New("no changelist number in p4 output")
)

// Opened lists files opened in the current client.
func (c *Client) Opened(ctx context.Context) ([]OpenedFile, error) {
	out, err := c.runner.Run(ctx, nil, "-ztag", "opened")
	if err != nil {
		return nil, fmt.Errorf("failed to list opened files: %w", err)
	}
	return ParseOpened(out), nil
}

// ParseOpened parses "p4 -ztag opened". Each record starts at depotFile;
// a record without a change field belongs to the default changelist.
func ParseOpened(data []byte) []OpenedFile {
	var files []OpenedFile
	var cur *OpenedFile

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m := ztagLineRE.FindStringSubmatch(strings.TrimRight(sc.Text(), "\r"))
		if m == nil {
			continue
		}
		key, val := m[1], m[2]
		if key == "depotFile" {
			files = append(files, OpenedFile{Change: DefaultChange, DepotFile: val})
			cur = &files[len(files)-1]
			continue
		}
		if cur == nil {
			continue
		}
		switch key {
		case "action":
			cur.Action = val
		case "change":
			cur.Change = val
		case "rev":
			cur.Rev = val
		}
	}
	return files
}

// ChangeDescription returns the description of change. ok is false when p4
// refuses the change, which usually means it does not exist.
func (c *Client) ChangeDescription(ctx context.Context, change string) (desc string, ok bool, err error) {
	out, err := c.runner.Run(ctx, nil, "change", "-o", change)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.Exited() {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to describe change %s: %w", change, err)
	}
	return ParseDescription(out), true, nil
}

// ParseDescription extracts the indented Description block of a change spec.
func ParseDescription(spec []byte) string {
	var lines []string
	in := false

	sc := bufio.NewScanner(bytes.NewReader(spec))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "Description:") {
			in = true
			continue
		}
		if !in {
			continue
		}
		if !strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, "    ") {
			break
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Descriptions fetches descriptions for many changes with at most workers
// p4 processes at once. The default change and unknown changes are skipped.
func (c *Client) Descriptions(ctx context.Context, changes []string, workers int) (map[string]string, error) {
	var mu sync.Mutex
	descs := make(map[string]string, len(changes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for _, change := range changes {
		if change == DefaultChange {
			continue
		}
		g.Go(func() error {
			desc, ok, err := c.ChangeDescription(ctx, change)
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			descs[change] = desc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descs, nil
}

// CreateChange creates a numbered pending changelist and returns its number.
func (c *Client) CreateChange(ctx context.Context, description string) (string, error) {
	template, err := c.runner.Run(ctx, nil, "change", "-o")
	if err != nil {
		return "", fmt.Errorf("failed to get changelist template: %w", err)
	}
	spec := BuildChangeSpec(template, description)
	out, err := c.runner.Run(ctx, strings.NewReader(spec), "change", "-i")
	if err != nil {
		return "", fmt.Errorf("failed to create changelist: %w", err)
	}
	m := createdRE.FindSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("%w: %q", errNoCreated, strings.TrimSpace(string(out)))
	}
	return string(m[1]), nil
}

// BuildChangeSpec rewrites a "p4 change -o" template into a new change with
// the given description. The template's file list is dropped so the new
// change starts empty.
func BuildChangeSpec(template []byte, description string) string {
	if strings.TrimSpace(description) == "" {
		description = "<enter description here>"
	}
	var b strings.Builder
	skipping := false

	sc := bufio.NewScanner(bytes.NewReader(template))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		indented := strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "    ")
		if skipping {
			if indented || line == "" {
				continue
			}
			skipping = false
		}
		switch {
		case strings.HasPrefix(line, "Change:"):
			b.WriteString("Change:\tnew\n")
		case strings.HasPrefix(line, "Description:"):
			b.WriteString("Description:\n")
			for _, l := range strings.Split(strings.TrimSpace(description), "\n") {
				b.WriteString("\t" + strings.TrimSpace(l) + "\n")
			}
			b.WriteString("\n")
			skipping = true
		case strings.HasPrefix(line, "Files:"):
			skipping = true
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Reopen moves files into change.
func (c *Client) Reopen(ctx context.Context, change string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"reopen", "-c", change}, files...)
	if _, err := c.runner.Run(ctx, nil, args...); err != nil {
		return fmt.Errorf("failed to reopen files into %s: %w", change, err)
	}
	return nil
}

// Shelve stores the files of change on the server.
func (c *Client) Shelve(ctx context.Context, change string) error {
	if _, err := c.runner.Run(ctx, nil, "shelve", "-c", change); err != nil {
		return fmt.Errorf("failed to shelve %s: %w", change, err)
	}
	return nil
}

// Unshelve restores the shelved files of change into the workspace.
func (c *Client) Unshelve(ctx context.Context, change string) error {
	if _, err := c.runner.Run(ctx, nil, "unshelve", "-s", change); err != nil {
		return fmt.Errorf("failed to unshelve %s: %w", change, err)
	}
	return nil
}

// Annotate returns one record per line of file, with the change, user and
// date that last touched it.
func (c *Client) Annotate(ctx context.Context, file string) ([]Annotation, error) {
	out, err := c.runner.Run(ctx, nil, "annotate", "-c", "-u", "-q", file)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate %s: %w", file, err)
	}
	return ParseAnnotate(out), nil
}

// ParseAnnotate parses "p4 annotate -c -u -q" output. Lines not in the
// "change: user date text" form are kept as text only.
func ParseAnnotate(data []byte) []Annotation {
	var recs []Annotation
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if m := annotateRE.FindStringSubmatch(line); m != nil {
			recs = append(recs, Annotation{Change: m[1], User: m[2], Date: m[3], Text: m[4]})
			continue
		}
		recs = append(recs, Annotation{Text: line})
	}
	return recs
}
