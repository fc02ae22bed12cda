package main

import (
	"fmt"

	"github.com/rigado/btcodec"
	"github.com/rigado/btcodec/bqr"
	"github.com/rigado/btcodec/cache"
	"github.com/urfave/cli"
)

func cacheListCommand(c *cli.Context) error {
	recs, err := cache.New(cfg.CachePath).List()
	if err != nil {
		return err
	}

	for _, rec := range recs {
		r, err := bqr.FromRecord(rec)
		if err != nil {
			btcodec.GetLogger().Warnf("%v: %v", rec.RemoteAddress, err)
			continue
		}
		fmt.Printf("%v  %-24v %v\n", rec.RemoteAddress, r.ReportID(), rec.RemoteName)
	}
	return nil
}

func cacheShowCommand(c *cli.Context) error {
	addr, err := btcodec.ParseAddr(c.Args().First())
	if err != nil {
		return err
	}

	rec, err := cache.New(cfg.CachePath).Load(addr)
	if err != nil {
		return err
	}

	r, err := bqr.FromRecord(rec)
	if err != nil {
		return err
	}
	fmt.Println(r)
	return nil
}

func cacheClearCommand(c *cli.Context) error {
	return cache.New(cfg.CachePath).Clear()
}
