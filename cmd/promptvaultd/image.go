package main

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var uploadImageFileName string

var uploadImageCmd = &cobra.Command{
	Use:   "upload-image <doc-id> <image-path>",
	Short: "Base64-encode a local image and store it under assets/<doc-id>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("upload_image", err)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fail("upload_image", err)
		}
		fileName := uploadImageFileName
		if fileName == "" {
			fileName = filepath.Base(args[1])
		}
		rel, err := vaultops.New(root).UploadImage(base64.StdEncoding.EncodeToString(data), args[0], fileName)
		if err != nil {
			return fail("upload_image", err)
		}
		return printJSON(map[string]string{"path": rel})
	},
}

func init() {
	uploadImageCmd.Flags().StringVar(&uploadImageFileName, "file-name", "", "destination file name (default: source file's base name)")
	rootCmd.AddCommand(uploadImageCmd)
}
