// Command promptvaultd is the prompt vault's CLI and MCP host: the same
// vaultops/scheduler surface bound once as cobra subcommands and once as
// mcp-go tools over stdio.
package main

func main() {
	Execute()
}
