// Package shell implements the interactive myDropbox command loop.
//
// A Shell reads one line at a time, splits it into a verb and arguments,
// dispatches to an Executor (normally *mydropbox.Service) and prints the
// outcome through a Formatter. The shell owns the session: login and logout
// change it, and put and view act as the user it names.
//
// # Commands
//
//	newuser <username>            register; the password is asked twice
//	login <username> <password>   authenticate
//	logout                        end the session
//	put <file>                    upload a local file as the current user
//	get <file> <owner>            download owner's file into the local directory
//	view                          list the current user's files
//	share <file> <recipient>      share one of your files
//	help                          print the command list
//	quit                          leave the shell
//
// Unknown verbs and wrong argument counts print
// "Invalid command. Please try again." Blank lines are ignored and end of
// input behaves like quit.
//
// # Output
//
// NewFormatter selects text, json or yaml output. Text output uses the
// interactive messages; json and yaml print one document per result.
package shell
