package vm

import "strconv"

type Value interface {
	isValue()
	String() string
}

type IntValue int

func (IntValue) isValue() {}
func (i IntValue) String() string {
	return strconv.Itoa(int(i))
}

type StrValue string

func (StrValue) isValue() {}
func (s StrValue) String() string {
	return string(s)
}

// ParseInt reports whether tok is a signed decimal integer literal.
func ParseInt(tok string) (IntValue, bool) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return IntValue(n), true
}
