// Command bonusctl computes annual bonuses from the command line against
// the same SQLite database the server uses.
package main

import "github.com/warp/bonus-engine/cmd/bonusctl/cmd"

func main() {
	cmd.Execute()
}
