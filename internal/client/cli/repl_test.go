package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Tasks(ctx context.Context) error { f.calls = append(f.calls, "tasks"); return nil }
func (f *fakeExec) NewTask(ctx context.Context) error {
	f.calls = append(f.calls, "newtask")
	return nil
}
func (f *fakeExec) MarkDone(ctx context.Context, id string) error {
	f.calls = append(f.calls, "done")
	f.arg = id
	return nil
}
func (f *fakeExec) MarkInProgress(ctx context.Context, id string) error {
	f.calls = append(f.calls, "progress")
	f.arg = id
	return nil
}
func (f *fakeExec) Meetings(ctx context.Context) error {
	f.calls = append(f.calls, "meetings")
	return nil
}
func (f *fakeExec) Convert(ctx context.Context) error {
	f.calls = append(f.calls, "convert")
	return nil
}
func (f *fakeExec) Transcript(ctx context.Context) error {
	f.calls = append(f.calls, "transcript")
	return nil
}
func (f *fakeExec) Transcripts(ctx context.Context) error {
	f.calls = append(f.calls, "transcripts")
	return nil
}
func (f *fakeExec) Projects(ctx context.Context) error {
	f.calls = append(f.calls, "projects")
	return nil
}
func (f *fakeExec) NewProject(ctx context.Context) error {
	f.calls = append(f.calls, "newproject")
	return nil
}
func (f *fakeExec) Events(ctx context.Context) error {
	f.calls = append(f.calls, "events")
	return nil
}
func (f *fakeExec) NewEvent(ctx context.Context) error {
	f.calls = append(f.calls, "newevent")
	return nil
}
func (f *fakeExec) Watch(ctx context.Context) error { f.calls = append(f.calls, "watch"); return nil }
func (f *fakeExec) Unwatch(ctx context.Context) error {
	f.calls = append(f.calls, "unwatch")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"tasks",
		"done 42",
		"meetings",
		"convert",
		"transcripts",
		"watch",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "tasks", "done", "meetings", "convert", "transcripts", "watch"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
	if exec.arg != "42" {
		t.Fatalf("done argument not passed: %q", exec.arg)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("done\nprogress\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_ShortTaskAlias(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("t\nexit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "tasks" {
		t.Fatalf("alias not dispatched: %v", exec.calls)
	}
}
