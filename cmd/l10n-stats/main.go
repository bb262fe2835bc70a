package main

import "l10n-stats/internal/cli"

func main() {
	cli.Execute()
}
