// tripcode prints the name and tripcode a name field renders as, for checking
// staff tripcodes against the configured secure salt.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/tripcode"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: tripcode [-config_folder dir] 'name#password'")
	}

	cfg := config.MustLoad(configFolder)
	result := tripcode.New(nil).Generate(flag.Arg(0), cfg.SecureTripSalt())

	fmt.Printf("name: %s\n", result.Name)
	if result.HasTrip {
		fmt.Printf("tripcode: %s\n", result.Marker())
	} else {
		fmt.Println("tripcode: none")
	}
}
