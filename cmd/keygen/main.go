// Command keygen prints a fresh pre-shared MAC key, base64-encoded. The same
// value must be configured on the server and on every client.
package main

import (
	"encoding/base64"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/common"
)

func main() {
	key := common.GenerateRandByteArray(common.KeySize)
	fmt.Println(base64.StdEncoding.EncodeToString(key))
}
