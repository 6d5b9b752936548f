package kv

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wowa-cli/wowa/cmd/util"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}
			key := util.ParseKey(args[0])
			if resp, ok, err := deps.Store.Get(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
			}
			return nil
		},
	}
	lsCmd = &cobra.Command{
		Use:   "ls [prefix]",
		Short: "Prints the values of all keys starting with prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			values, err := deps.Store.GetByPrefix(util.ParseKey(prefix))
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Println(v)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}
			if err := deps.Store.Delete(util.ParseKey(args[0])); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
)
