package main

import (
	"github.com/calcoloergosum/vocagen/cmd"
	"github.com/calcoloergosum/vocagen/config"
	"github.com/calcoloergosum/vocagen/internal/cache"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}
