// Command fulfillctl runs the fulfillment core over local order and template
// files, without MongoDB, Temporal or Kafka.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
