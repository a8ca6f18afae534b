// udputil sends, broadcasts and receives fixed-layout UDP datagrams.
package main

import "github.com/1ureka/udputil/internal/cli"

func main() {
	cli.Execute()
}
