package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Select returns the position in devices the operator picked. A single
// device is chosen without prompting. Otherwise it prompts for a 1-based
// index until a valid one is entered; invalid input is reported and asked
// again. The only error is the input itself ending or failing.
func Select(devices []Device, in io.Reader, out io.Writer) (int, error) {
	if len(devices) == 0 {
		return -1, errors.New("no devices to select from")
	}
	if len(devices) == 1 {
		return 0, nil
	}

	r := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "Enter device index to use [1-%d]: ", len(devices))
		line, err := r.ReadString('\n')
		if line == "" && err != nil {
			return -1, fmt.Errorf("read device index: %w", err)
		}
		if n, ok := parseIndex(line, len(devices)); ok {
			return n - 1, nil
		}
		fmt.Fprintln(out, "E :: Invalid value")
		if err != nil {
			return -1, fmt.Errorf("read device index: %w", err)
		}
	}
}

func parseIndex(s string, count int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n, true
}
