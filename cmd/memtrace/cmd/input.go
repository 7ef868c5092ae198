package cmd

import (
	"io"
	"os"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	"github.com/msto63/memtrace/foundation/trace"
)

// stdinName is the argument that selects standard input
const stdinName = "-"

// parseArg parses the trace named by arg, reading stdin for "-"
func (a *app) parseArg(arg string, stdin io.Reader) (*trace.Trace, error) {
	if arg == stdinName {
		return a.engine.ParseReader(stdin)
	}
	return a.engine.ParseFile(arg)
}

// readSource returns the raw text named by arg, for archiving
func readSource(arg string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if arg == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		code := mterror.CodeInternal
		if os.IsNotExist(err) {
			code = mterror.CodeNotFound
		}
		return "", mterror.Wrap(err, "failed to read trace").
			WithCode(code).
			WithOperation("cmd.readSource").
			WithDetail("path", arg)
	}
	return string(data), nil
}

// displayName names an input in verdicts and archive records
func displayName(arg string) string {
	if arg == stdinName {
		return "<stdin>"
	}
	return arg
}
