// Package tripcode derives display names and tripcodes from a raw name field.
//
// The output must stay identical to tripcodes already shown on existing posts,
// so every step below mirrors the legacy generator exactly, quirks included.
package tripcode

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	crypt "gitlab.com/nyarla/go-crypt"
)

// LegacyCrypt is the traditional DES based crypt(3).
type LegacyCrypt interface {
	Crypt(key, salt string) string
}

type desCrypt struct{}

func (desCrypt) Crypt(key, salt string) string {
	return crypt.Crypt(key, salt)
}

// DES is the default LegacyCrypt implementation.
var DES LegacyCrypt = desCrypt{}

// Result of parsing a name field.
type Result struct {
	Name    string
	Trip    string
	HasTrip bool
}

// Marker is the tripcode as displayed next to the name.
func (r Result) Marker() string {
	if !r.HasTrip {
		return ""
	}
	return "!" + r.Trip
}

type Generator struct {
	crypt LegacyCrypt
}

func New(c LegacyCrypt) *Generator {
	if c == nil {
		c = DES
	}
	return &Generator{crypt: c}
}

var separators = []byte{'!', '#'}

var (
	// both translations are character-wise, as the legacy strtr calls were:
	// the first maps '&' to itself, the second maps '&' to ',' and '#' to ' '
	ampTranslation   = strings.NewReplacer("&", "&")
	commaTranslation = strings.NewReplacer("&", ",", "#", " ")
	saltTranslation  = strings.NewReplacer(
		":", "A", ";", "B", "<", "C", "=", "D", ">", "E", "?", "F", "@", "G",
		"[", "a", "\\", "b", "]", "c", "^", "d", "_", "e", "`", "f",
	)
)

// Generate splits input into a name and a tripcode. secureSalt is the
// server secret mixed into secure tripcodes.
func (g *Generator) Generate(input, secureSalt string) Result {
	first, second := -1, -1
	for _, sep := range separators {
		pos := strings.IndexByte(input, sep)
		if pos == -1 || (first != -1 && pos >= first) {
			continue
		}
		first, second = pos, -1
		if last := strings.LastIndexByte(input[pos+1:], sep); last != -1 {
			second = pos + 1 + last
		}
	}
	if first == -1 {
		return Result{Name: input}
	}

	name := input[:first]
	var normalPass, securePass string
	if second == -1 {
		normalPass = input[first+1:]
	} else {
		normalPass = input[first+1 : second]
		securePass = input[second+1:]
	}

	var trip string
	if normalPass != "" {
		normalPass = ampTranslation.Replace(normalPass)
		normalPass = commaTranslation.Replace(normalPass)
		trip = g.normal(normalPass)
	}

	if securePass != "" {
		if normalPass != "" {
			trip += "!!"
		} else {
			trip += "!"
		}
		trip += secure(securePass, secureSalt)
	}

	if trip == "" {
		return Result{Name: input}
	}
	return Result{Name: name, Trip: trip, HasTrip: true}
}

func (g *Generator) normal(pass string) string {
	code := g.crypt.Crypt(pass, Salt(pass))
	if len(code) <= 10 {
		return code
	}
	return code[len(code)-10:]
}

// Salt derives the two character crypt salt for a tripcode password.
func Salt(pass string) string {
	padded := pass + "H."
	salt := []byte(padded[1:3])
	for i, c := range salt {
		if c < '.' || c > 'z' {
			salt[i] = '.'
		}
	}
	return saltTranslation.Replace(string(salt))
}

func secure(pass, secureSalt string) string {
	sum := md5.Sum([]byte(pass + secureSalt))
	return hex.EncodeToString(sum[:])[2:12]
}
