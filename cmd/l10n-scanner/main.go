package main

import "l10n-scanner/internal/cli"

func main() {
	cli.Execute()
}
