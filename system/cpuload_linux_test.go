package system

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func withLoadAvgFile(t *testing.T, contents string) func() {
	path := filepath.Join(t.TempDir(), "loadavg")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	original := procLoadAvgPath
	procLoadAvgPath = path
	return func() {
		procLoadAvgPath = original
	}
}

func TestLinuxLoadAverages(t *testing.T) {
	Convey("Reading a well formed loadavg file", t, func() {
		reset := withLoadAvgFile(t, "3.10 2.20 1.30 4/812 4242\n")
		defer reset()

		avg1, avg5, avg15, err := LoadAverages()
		Convey("should yield its averages.", func() {
			So(err, ShouldBeNil)
			So(avg1, ShouldEqual, 3.1)
			So(avg5, ShouldEqual, 2.2)
			So(avg15, ShouldEqual, 1.3)
		})
	})

	Convey("Reading a truncated loadavg file", t, func() {
		reset := withLoadAvgFile(t, "3.10")
		defer reset()

		_, _, _, err := LoadAverages()
		Convey("should fail.", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Reading a missing loadavg file", t, func() {
		original := procLoadAvgPath
		procLoadAvgPath = filepath.Join(t.TempDir(), "does-not-exist")
		defer func() { procLoadAvgPath = original }()

		_, _, _, err := LoadAverages()
		Convey("should fail.", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Linux", t, func() {
		Convey("should be polling averse.", func() {
			So(IsPollingAverse(), ShouldBeTrue)
		})
	})
}
