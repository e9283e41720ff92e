package arch

// T is a CPU architecture.
type T int

const (
	Invalid T = iota
	AMD64
	I386
	ARM64
	ARM
)

var bitness = map[T]Bitness{
	Invalid: BitnessInvalid,
	AMD64:   Bitness64Bit,
	I386:    Bitness32Bit,
	ARM64:   Bitness64Bit,
	ARM:     Bitness32Bit,
}

var names = map[T]string{
	Invalid: "invalid",
	AMD64:   "amd64",
	I386:    "386",
	ARM64:   "arm64",
	ARM:     "arm",
}

// FromGOARCH maps a value of runtime.GOARCH to a T.
// Unknown architectures yield Invalid.
func FromGOARCH(goarch string) T {
	for t, name := range names {
		if name == goarch {
			return t
		}
	}
	return Invalid
}

func (t T) Bitness() Bitness {
	return bitness[t]
}

func (t T) String() string {
	name, ok := names[t]
	if !ok {
		return names[Invalid]
	}
	return name
}

// MarshalText implements encoding.TextMarshaler.
func (t T) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
