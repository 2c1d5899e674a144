// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

func badToken(tok, expected string, err error) *wmerrors.MalformedDumpError {
	return &wmerrors.MalformedDumpError{
		Dump:     tokenDump,
		Version:  FormatVersion,
		Text:     tok,
		Expected: expected,
		Err:      err,
	}
}

// submatchInts matches tok against re and converts every group to an int.
func submatchInts(re *regexp.Regexp, tok, expected string) ([]int, error) {
	m := re.FindStringSubmatch(tok)
	if m == nil {
		return nil, badToken(tok, expected, nil)
	}
	vals := make([]int, 0, len(m)-1)
	for _, s := range m[1:] {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, badToken(tok, expected, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// DecodeRect decodes the activity manager notation "Rect(l, t - r, b)".
func DecodeRect(tok string) (wm.Rect, error) {
	v, err := submatchInts(rectPattern, tok, "Rect(left, top - right, bottom)")
	if err != nil {
		return wm.Rect{}, err
	}
	return wm.NewRectLTRB(v[0], v[1], v[2], v[3]), nil
}

// DecodeBracketRect decodes the window manager notation "[l,t][r,b]".
func DecodeBracketRect(tok string) (wm.Rect, error) {
	v, err := submatchInts(bracketRectPattern, tok, "[left,top][right,bottom]")
	if err != nil {
		return wm.Rect{}, err
	}
	return wm.NewRectLTRB(v[0], v[1], v[2], v[3]), nil
}

// DecodeSize decodes "WxH".
func DecodeSize(tok string) (wm.Size, error) {
	v, err := submatchInts(sizePattern, tok, "WIDTHxHEIGHT")
	if err != nil {
		return wm.Size{}, err
	}
	return wm.Size{Width: v[0], Height: v[1]}, nil
}

// DecodeDensity decodes "Ndpi".
func DecodeDensity(tok string) (int, error) {
	v, err := submatchInts(densityPattern, tok, "Ndpi")
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// DecodeDp decodes a density-independent size such as "sw411dp" where
// prefix is "sw".
func DecodeDp(tok, prefix string) (int, error) {
	m := dpPattern.FindStringSubmatch(tok)
	if m == nil || m[1] != prefix {
		return 0, badToken(tok, prefix+"Ndp", nil)
	}
	v, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, badToken(tok, prefix+"Ndp", err)
	}
	return v, nil
}

var durationUnits = []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second, time.Millisecond}

// DecodeDuration decodes the device's compact duration format, e.g.
// "+1s3ms" or "-2m". A bare "0" is zero.
func DecodeDuration(tok string) (time.Duration, error) {
	const expected = "[+-]NdNhNmNsNms"
	if tok == "0" {
		return 0, nil
	}
	m := durationPattern.FindStringSubmatch(tok)
	if m == nil || strings.TrimLeft(tok, "+-") == "" {
		return 0, badToken(tok, expected, nil)
	}
	var d time.Duration
	for i, s := range m[2:] {
		if s == "" {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, badToken(tok, expected, err)
		}
		d += time.Duration(n) * durationUnits[i]
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// FormatDuration is the inverse of DecodeDuration at millisecond precision.
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Millisecond)
	if d == 0 {
		return "0"
	}
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	} else {
		b.WriteByte('+')
	}
	suffixes := []string{"d", "h", "m", "s", "ms"}
	for i, unit := range durationUnits {
		if n := d / unit; n > 0 {
			b.WriteString(strconv.FormatInt(int64(n), 10))
			b.WriteString(suffixes[i])
			d -= n * unit
		}
	}
	return b.String()
}

// ParseConfiguration decodes a configuration summary such as
// "{1.0 310mcc260mnc [en_US] ldltr sw411dp w411dp h659dp 420dpi nrml port}".
// Tokens the model does not carry are skipped.
func ParseConfiguration(s string) (wm.Configuration, error) {
	var c wm.Configuration
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return c, badToken(s, "{configuration}", nil)
	}
	for _, tok := range strings.Fields(s[1 : len(s)-1]) {
		var err error
		switch {
		case configDpToken.MatchString(tok):
			switch {
			case strings.HasPrefix(tok, "sw"):
				c.SmallestWidthDp, err = DecodeDp(tok, "sw")
			case strings.HasPrefix(tok, "w"):
				c.WidthDp, err = DecodeDp(tok, "w")
			default:
				c.HeightDp, err = DecodeDp(tok, "h")
			}
		case configDensityToken.MatchString(tok):
			c.DensityDpi, err = DecodeDensity(tok)
		case tok == "port" || tok == "land" || tok == "square":
			c.Orientation = tok
		}
		if err != nil {
			return c, errors.Wrapf(err, "configuration %s", s)
		}
	}
	return c, nil
}

// formatConfiguration renders c in the form ParseConfiguration accepts.
func formatConfiguration(c wm.Configuration) string {
	parts := []string{"1.0", "?mcc?mnc", "[en_US]", "ldltr"}
	if c.SmallestWidthDp > 0 {
		parts = append(parts, "sw"+strconv.Itoa(c.SmallestWidthDp)+"dp")
	}
	if c.WidthDp > 0 {
		parts = append(parts, "w"+strconv.Itoa(c.WidthDp)+"dp")
	}
	if c.HeightDp > 0 {
		parts = append(parts, "h"+strconv.Itoa(c.HeightDp)+"dp")
	}
	if c.DensityDpi > 0 {
		parts = append(parts, strconv.Itoa(c.DensityDpi)+"dpi")
	}
	parts = append(parts, "nrml")
	if c.Orientation != "" {
		parts = append(parts, c.Orientation)
	}
	parts = append(parts, "finger")
	return "{" + strings.Join(parts, " ") + "}"
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, badToken(s, "true or false", err)
	}
	return b, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badToken(s, "integer", err)
	}
	return v, nil
}
