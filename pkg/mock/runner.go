//go:build !release

package mock

import (
	"io"
	"regexp"
	"strings"
)

type ExecMockRunner struct {
	Dir                 []string
	Env                 []string
	ExitCode            int
	Calls               []ExecCall
	stdin               io.Reader
	stdout              io.Writer
	stderr              io.Writer
	StdoutReturn        map[string]string
	ShouldFailOnCommand map[string]error
}

type ExecCall struct {
	Exec   string
	Params []string
}

func (m *ExecMockRunner) SetDir(d string) {
	m.Dir = append(m.Dir, d)
}

func (m *ExecMockRunner) SetEnv(e []string) {
	m.Env = e
}

func (m *ExecMockRunner) AppendEnv(e []string) {
	m.Env = append(m.Env, e...)
}

func (m *ExecMockRunner) RunExecutable(e string, p ...string) error {
	m.Calls = append(m.Calls, ExecCall{Exec: e, Params: p})

	c := strings.Join(append([]string{e}, p...), " ")

	return handleCall(c, m.StdoutReturn, m.ShouldFailOnCommand, m.stdout)
}

func (m *ExecMockRunner) GetExitCode() int {
	return m.ExitCode
}

func (m *ExecMockRunner) Stdin(in io.Reader) {
	m.stdin = in
}

func (m *ExecMockRunner) Stdout(out io.Writer) {
	m.stdout = out
}

func (m *ExecMockRunner) GetStdout() io.Writer {
	return m.stdout
}

func (m *ExecMockRunner) Stderr(err io.Writer) {
	m.stderr = err
}

func (m *ExecMockRunner) GetStderr() io.Writer {
	return m.stderr
}

func handleCall(call string, stdoutReturn map[string]string, shouldFailOnCommand map[string]error, stdout io.Writer) error {
	if stdoutReturn != nil {
		for k, v := range stdoutReturn {
			found := k == call

			if !found {
				r, e := regexp.Compile(k)
				if e != nil {
					return e
					// we don't distinguish here between an error returned
					// since it was configured or returning this error here
					// indicating an invalid regex. Anyway: when running the
					// test we will see it ...
				}
				if r.MatchString(call) {
					found = true
				}
			}

			if found {
				stdout.Write([]byte(v))
			}
		}
	}

	if shouldFailOnCommand != nil {
		for k, v := range shouldFailOnCommand {
			found := k == call

			if !found {
				r, e := regexp.Compile(k)
				if e != nil {
					return e
				}
				if r.MatchString(call) {
					found = true
				}
			}

			if found {
				return v
			}
		}
	}

	return nil
}
