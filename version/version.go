// Package version holds the version of loadmeter.
package version

import "fmt"

// LoadmeterVersion is the version of this build.
var LoadmeterVersion = Version{
	Major:  0,
	Minor:  3,
	Bugfix: 1,
}

type Version struct {
	Major  int
	Minor  int
	Bugfix int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Bugfix)
}

// MarshalText implements encoding.TextMarshaler, so versions appear as
// plain strings in JSON documents.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
