package main

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// parseHex accepts plain, spaced, colon separated or 0x prefixed hex.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex")
	}
	return b, nil
}

func hexArg(c *cli.Context) ([]byte, error) {
	if c.NArg() == 0 {
		return nil, errors.New("missing hex argument")
	}
	return parseHex(strings.Join(c.Args(), ""))
}
