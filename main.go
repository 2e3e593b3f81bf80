// Command auditor analyzes Workday Extend applications.
package main

import "github.com/mouse-blink/auditor/cmd"

func main() {
	cmd.Execute()
}
