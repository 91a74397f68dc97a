package command

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/teslashibe/go-voicebridge/pkg/naming"
)

var smallNumbers = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseNumber reads a spoken or written number: "7", "7.5", "-3",
// "seven", "twenty five", "one hundred and five", "minus three",
// "seven point five". Every word must be part of the number.
func ParseNumber(s string) (float64, bool) {
	toks := strings.Fields(naming.Words(s))
	if len(toks) == 0 {
		return 0, false
	}
	sign := 1.0
	if toks[0] == "minus" || toks[0] == "negative" {
		sign, toks = -1, toks[1:]
	}
	if len(toks) == 0 {
		return 0, false
	}
	if len(toks) == 1 {
		if v, err := strconv.ParseFloat(toks[0], 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return sign * v, true
		}
	}

	whole, frac := toks, []string(nil)
	if i := slices.Index(toks, "point"); i >= 0 {
		whole, frac = toks[:i], toks[i+1:]
		if len(frac) == 0 {
			return 0, false
		}
	}

	v := 0.0
	if len(whole) > 0 {
		n, ok := cardinal(whole)
		if !ok {
			return 0, false
		}
		v = n
	}
	scale := 0.1
	for _, t := range frac {
		d, ok := digit(t)
		if !ok {
			return 0, false
		}
		v += float64(d) * scale
		scale /= 10
	}
	return sign * v, true
}

// cardinal sums number words up to the thousands. It needs at least one
// number word; "and" may only join two parts, and a digit token must stand
// alone.
func cardinal(toks []string) (float64, bool) {
	if len(toks) == 0 || toks[0] == "and" || toks[len(toks)-1] == "and" {
		return 0, false
	}
	if len(toks) == 1 {
		if n, err := strconv.Atoi(toks[0]); err == nil && n >= 0 {
			return float64(n), true
		}
	}

	total, cur := 0, 0
	numbers := 0
	for _, t := range toks {
		switch t {
		case "and":
			continue
		case "hundred":
			if cur == 0 {
				cur = 1
			}
			cur *= 100
		case "thousand":
			if cur == 0 {
				cur = 1
			}
			total += cur * 1000
			cur = 0
		default:
			n, ok := smallNumbers[t]
			if !ok {
				return 0, false
			}
			cur += n
			numbers++
		}
	}
	if numbers == 0 {
		return 0, false
	}
	return float64(total + cur), true
}

func digit(t string) (int, bool) {
	if n, ok := smallNumbers[t]; ok && n < 10 {
		return n, true
	}
	if len(t) == 1 && t[0] >= '0' && t[0] <= '9' {
		return int(t[0] - '0'), true
	}
	return 0, false
}
