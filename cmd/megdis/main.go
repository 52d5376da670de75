// Command megdis prints the MEG effects program of one or more patches.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/spf13/afero"

	"github.com/user-none/emswp/emu"
	"github.com/user-none/emswp/meg"
	"github.com/user-none/emswp/patch"
	"github.com/user-none/emswp/rom"
)

func main() {
	loaded := flag.Bool("loaded", false, "disassemble the program as loaded through the chip registers")
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("Usage: megdis [-loaded] <patch.yaml>...")
	}

	fs := afero.NewOsFs()
	for _, path := range flag.Args() {
		p, err := patch.Load(fs, path)
		if err != nil {
			log.Fatalf("Failed to load patch: %v", err)
		}
		if flag.NArg() > 1 {
			fmt.Printf("%s:\n", path)
		}
		if len(p.MEG.Program) == 0 {
			fmt.Println("(no MEG program)")
			continue
		}

		if !*loaded {
			fmt.Print(meg.Disassemble(p.MEG.Words(), p.MEG.ConstTable()))
			continue
		}
		c, err := emu.New(rom.NewImageWords([]uint32{0}), emu.DefaultConfig())
		if err != nil {
			log.Fatal(err)
		}
		p.Apply(c.Registers())
		fmt.Print(c.MEG().Disassemble())
	}
}
