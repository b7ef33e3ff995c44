package databag

// User-facing message strings for the databag CLI
const (
	MsgRootShort = "Distribute data bags to managed nodes"
	MsgRootLong  = `databag manages named collections of JSON documents ("data bags")
used by configuration automation. Bags resolve from a configuration
server or, in solo mode, from local directories of JSON files.`

	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun      = "Simulate mutating operations without remote calls"
	MsgFlagConfig      = "Config file (default ./databag.toml, then XDG config home)"
	MsgFlagServerURL   = "Configuration server base URL (implies server mode)"
	MsgFlagDataBagPath = "Local bag root, repeatable; later roots win on id clashes"
	MsgFlagSolo        = "Resolve bags from local bag roots instead of the server"
	MsgFlagFormat      = "Output format: plain, json or yaml"

	MsgListShort   = "List available data bag names"
	MsgShowShort   = "Show a data bag's items, or a single item"
	MsgCreateShort = "Create a data bag on the server, optionally with items"
	MsgDeleteShort = "Delete a data bag or a single item from the server"
	MsgInitShort   = "Write a starter databag.toml in the current directory"
)
