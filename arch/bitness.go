package arch

import "fmt"

// Bitness is the native word size of an architecture.
type Bitness int

const (
	BitnessInvalid Bitness = 0
	Bitness32Bit   Bitness = 32
	Bitness64Bit   Bitness = 64
)

var bitnessNames = map[Bitness]string{
	BitnessInvalid: "invalid",
	Bitness32Bit:   "32bit",
	Bitness64Bit:   "64bit",
}

var bitnessShortNames = map[Bitness]string{
	BitnessInvalid: "??",
	Bitness64Bit:   "64",
	Bitness32Bit:   "32",
}

func (b Bitness) String() string {
	if name, ok := bitnessNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bitness(%d)", int(b))
}

func (b Bitness) Short() string {
	return bitnessShortNames[b]
}

// MarshalText implements encoding.TextMarshaler.
func (b Bitness) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
