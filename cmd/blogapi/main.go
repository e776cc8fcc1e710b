package main

import (
	"github.com/nimburion/blogapi/pkg/app"
	"github.com/nimburion/blogapi/pkg/cli"
)

func main() {
	cmd := cli.NewServiceCommand(cli.ServiceCommandOptions{
		Name:              "blogapi",
		Description:       "Users, categories and blogs over MongoDB",
		EnvPrefix:         "BLOGAPI",
		RunServer:         app.Run,
		CheckDependencies: app.CheckDependencies,
	})
	cli.Execute(cmd)
}
