package value

import (
	"fmt"
	"os"
	"strings"
)

// directory, may be empty

type Dir string

func NewDir(p *string, val string) *Dir {
	*p = val

	return (*Dir)(p)
}

func (u *Dir) Set(val string) error {
	*u = Dir(val)
	return nil
}

func (u *Dir) String() string {
	return string(*u)
}

func (u *Dir) Validate() error {
	val := string(*u)

	if len(strings.TrimSpace(val)) == 0 {
		return nil
	}

	finfo, err := os.Stat(val)
	if err != nil {
		return fmt.Errorf("%s does not exist", val)
	}

	if !finfo.IsDir() {
		return fmt.Errorf("%s is not a directory", val)
	}

	return nil
}

func (u *Dir) IsEmpty() bool {
	return len(string(*u)) == 0
}
