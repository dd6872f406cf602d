package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/leadbook/internal/version.Version=1.2.3"
var Version = "1.0"

// Banner returns the startup banner.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	return fmt.Sprintf("%s\nLeadbook (v%s)\nCopyright 2025-%s Winsby Group LLC. All rights reserved.\n", logo, Version, y)
}

// http://patorjk.com/software/taag/#p=display&f=Standard&t=Leadbook
const logo = `
  _                    _ _                 _    
 | |    ___  __ _  __| | |__   ___   ___ | | __
 | |   / _ \/ _' |/ _' | '_ \ / _ \ / _ \| |/ /
 | |__|  __/ (_| | (_| | |_) | (_) | (_) |   < 
 |_____\___|\__,_|\__,_|_.__/ \___/ \___/|_|\_\
`
