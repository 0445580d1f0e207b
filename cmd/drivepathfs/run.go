package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/Jumpaku/go-drivepathfs"
)

const usage = `Usage: drivepathfs <command> [arguments]

Commands:
  ls <folder>                  List files in a folder
  lsdir <folder>               List subfolders of a folder
  mkdir <folder>               Create a folder and its missing ancestors
  rmdir <folder>               Delete a folder
  put [-mime type] <path> [local]
                               Upload a local file, or stdin, to path
  get <path>                   Write a file to stdout
  rm <path>                    Delete a file
  find <pattern>               Search files by name
  finddir <pattern>            Search folders by name
  exists <path>                Report whether a file exists
  direxists <folder>           Report whether a folder exists
`

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// run executes the command in args against fsys.
func run(ctx context.Context, fsys *drivepathfs.FileSystem, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return usagef("missing command")
	}
	cmd, args := args[0], args[1:]

	if cmd == "put" {
		return cmdPut(ctx, fsys, args, stdin)
	}
	if len(args) != 1 {
		return usagef("%s takes exactly one argument", cmd)
	}
	arg := args[0]

	switch cmd {
	case "ls":
		names, err := fsys.ListFiles(ctx, arg)
		if err != nil {
			return err
		}
		return printNames(stdout, names)
	case "lsdir":
		names, err := fsys.ListFolders(arg)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(stdout, name)
		}
		return nil
	case "mkdir":
		return fsys.CreateFolder(ctx, arg)
	case "rmdir":
		return fsys.DeleteFolder(ctx, arg)
	case "get":
		f, err := fsys.ReadFile(ctx, arg)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(stdout, f); err != nil {
			return fmt.Errorf("failed to write %s: %w", arg, err)
		}
		return nil
	case "rm":
		return fsys.DeleteFile(ctx, arg)
	case "find":
		return printNames(stdout, fsys.SearchFiles(ctx, arg))
	case "finddir":
		return printNames(stdout, fsys.SearchFolders(ctx, arg))
	case "exists":
		exists, err := fsys.FileExists(ctx, arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, exists)
		return nil
	case "direxists":
		fmt.Fprintln(stdout, fsys.FolderExists(arg))
		return nil
	default:
		return usagef("unknown command %q", cmd)
	}
}

func cmdPut(ctx context.Context, fsys *drivepathfs.FileSystem, args []string, stdin io.Reader) error {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	mimeType := fs.String("mime", "", "MIME type of the uploaded content")
	if err := fs.Parse(args); err != nil {
		return usagef("put: %v", err)
	}

	var content io.Reader
	switch fs.NArg() {
	case 1:
		content = stdin
	case 2:
		f, err := os.Open(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", fs.Arg(1), err)
		}
		defer f.Close()
		content = f
	default:
		return usagef("put takes a remote path and an optional local file")
	}
	return fsys.SaveFile(ctx, fs.Arg(0), content, *mimeType)
}

func printNames(w io.Writer, names iter.Seq2[string, error]) error {
	for name, err := range names {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, name)
	}
	return nil
}
