package value

import (
	"fmt"
	"net"
	"net/url"
	"regexp"

	"github.com/buildlens/core/http/cors"
)

var numeric = regexp.MustCompile("^[0-9]+$")

// address (host?:port)

type Address string

func NewAddress(p *string, val string) *Address {
	*p = val

	return (*Address)(p)
}

func (s *Address) Set(val string) error {
	// Only a port number
	if numeric.MatchString(val) {
		val = ":" + val
	}

	*s = Address(val)
	return nil
}

func (s *Address) String() string {
	return string(*s)
}

func (s *Address) Validate() error {
	_, port, err := net.SplitHostPort(string(*s))
	if err != nil {
		return err
	}

	if !numeric.MatchString(port) {
		return fmt.Errorf("the port must be numerical")
	}

	return nil
}

func (s *Address) IsEmpty() bool {
	return s.Validate() != nil
}

// url

type URL string

func NewURL(p *string, val string) *URL {
	*p = val

	return (*URL)(p)
}

func (u *URL) Set(val string) error {
	*u = URL(val)
	return nil
}

func (u *URL) String() string {
	return string(*u)
}

func (u *URL) Validate() error {
	val := string(*u)

	if len(val) == 0 {
		return nil
	}

	URL, err := url.Parse(val)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", val)
	}

	if len(URL.Scheme) == 0 || len(URL.Host) == 0 {
		return fmt.Errorf("%s is not a valid URL", val)
	}

	return nil
}

func (u *URL) IsEmpty() bool {
	return len(string(*u)) == 0
}

// array of origins for CORS

type CORSOrigins struct {
	StringList
}

func NewCORSOrigins(p *[]string, val []string, separator string) *CORSOrigins {
	return &CORSOrigins{
		StringList: *NewStringList(p, val, separator),
	}
}

func (s *CORSOrigins) Validate() error {
	return cors.Validate(*s.p)
}
