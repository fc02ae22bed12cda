package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/btcodec/bqr"
	"github.com/rigado/btcodec/leaudio"
	"github.com/rigado/btcodec/ltv"
	"github.com/urfave/cli"
)

type reportJSON struct {
	ReportID      string      `json:"reportId"`
	RemoteAddress string      `json:"remoteAddress"`
	Common        *bqr.Common `json:"common"`
	Event         bqr.Event   `json:"event,omitempty"`
}

func newReportJSON(r *bqr.Report) reportJSON {
	return reportJSON{
		ReportID:      r.ReportID().String(),
		RemoteAddress: r.RemoteAddress,
		Common:        r.Common(),
		Event:         r.Event(),
	}
}

func printReport(r *bqr.Report, asJSON bool) error {
	if !asJSON {
		fmt.Println(r)
		return nil
	}

	b, err := jsoniter.MarshalIndent(newReportJSON(r), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func decodeReport(raw []byte) (*bqr.Report, error) {
	c, err := bqr.DecodeCommon(raw, 0)
	if err != nil {
		return nil, err
	}
	return bqr.NewBuilder(raw).SetRemoteAddress(c.Address()).Build()
}

func bqrDecodeCommand(c *cli.Context) error {
	raw, err := hexArg(c)
	if err != nil {
		return err
	}

	r, err := decodeReport(raw)
	if err != nil {
		return err
	}
	return printReport(r, c.Bool("json"))
}

func bqrEncodeCommand(c *cli.Context) error {
	raw, err := hexArg(c)
	if err != nil {
		return err
	}

	r, err := decodeReport(raw)
	if err != nil {
		return err
	}

	out, err := r.Bytes()
	if err != nil {
		return err
	}

	fmt.Printf("% x\n", out)
	if !bytes.HasPrefix(raw, out) {
		return errors.New("re-encoded report differs from input")
	}
	if len(raw) > len(out) {
		fmt.Printf("ignored %d trailing bytes\n", len(raw)-len(out))
	}
	return nil
}

func ltvDecodeCommand(c *cli.Context) error {
	raw, err := hexArg(c)
	if err != nil {
		return err
	}

	es, err := ltv.Decode(raw)
	if err != nil {
		return err
	}
	for _, e := range es {
		fmt.Println(e)
	}
	return nil
}

func ltvEncodeCommand(c *cli.Context) error {
	var es ltv.Entries
	for _, a := range c.Args() {
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			return errors.Errorf("expected <type>=<hex>, got %q", a)
		}

		t, err := strconv.ParseUint(kv[0], 0, 8)
		if err != nil {
			return errors.Wrapf(err, "type %q", kv[0])
		}
		v, err := parseHex(kv[1])
		if err != nil {
			return err
		}
		es = append(es, ltv.Entry{Type: byte(t), Value: v})
	}

	b, err := ltv.Encode(es)
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", b)
	return nil
}

func contentCommand(c *cli.Context) error {
	raw, err := hexArg(c)
	if err != nil {
		return err
	}

	m, err := leaudio.ParseContentMetadata(raw)
	if err != nil {
		return err
	}

	if v, ok := m.ProgramInfo(); ok {
		fmt.Printf("program info: %q\n", v)
	}
	if v, ok := m.Language(); ok {
		fmt.Printf("language: %v\n", v)
	}
	for _, e := range m.Entries() {
		if e.Type != leaudio.TypeProgramInfo && e.Type != leaudio.TypeLanguage {
			fmt.Println("other:", e)
		}
	}
	return nil
}

func codecCommand(c *cli.Context) error {
	raw, err := hexArg(c)
	if err != nil {
		return err
	}

	m, err := leaudio.ParseCodecConfigMetadata(raw)
	if err != nil {
		return err
	}
	printCodecConfig("", m)
	return nil
}

func printCodecConfig(indent string, m *leaudio.CodecConfigMetadata) {
	if hz, ok := m.SampleRateHz(); ok {
		fmt.Printf("%vsample rate: %d Hz\n", indent, hz)
	} else if code, ok := m.SamplingFrequency(); ok {
		fmt.Printf("%vsample rate: unknown code 0x%02x\n", indent, code)
	}
	if us, ok := m.FrameDurationMicros(); ok {
		fmt.Printf("%vframe duration: %d us\n", indent, us)
	}
	if loc, ok := m.AudioLocation(); ok {
		fmt.Printf("%vaudio location: 0x%08x\n", indent, loc)
	}
	if n, ok := m.OctetsPerFrame(); ok {
		fmt.Printf("%voctets per frame: %d\n", indent, n)
	}
}

func broadcastCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected a single json file")
	}

	b, err := ioutil.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	var m leaudio.BroadcastMetadata
	if err := jsoniter.Unmarshal(b, &m); err != nil {
		return err
	}

	fmt.Printf("source %v (type %d) sid %d broadcast id 0x%06x encrypted %v\n",
		m.SourceAddress, m.SourceAddressType, m.SourceAdvertisingSID, m.BroadcastID, m.Encrypted)
	for i, sg := range m.Subgroups {
		fmt.Printf("subgroup %d codec 0x%x\n", i, sg.CodecID)
		printCodecConfig("  ", sg.CodecConfig)
		if v, ok := sg.Content.ProgramInfo(); ok {
			fmt.Printf("  program info: %q\n", v)
		}
		if v, ok := sg.Content.Language(); ok {
			fmt.Printf("  language: %v\n", v)
		}
		for _, ch := range sg.Channels {
			fmt.Printf("  channel %d selected %v\n", ch.Index, ch.Selected)
			printCodecConfig("    ", ch.CodecConfig)
		}
	}
	return nil
}
