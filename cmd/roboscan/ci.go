package roboscan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ciTemplates = map[string]struct{ path, content string }{
	"github": {".github/workflows/roboscan.yml", `name: roboscan
on: [push, pull_request]
jobs:
  scan:
    runs-on: ubuntu-latest
    permissions:
      security-events: write
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25.x'
      - run: go install github.com/roboscan/roboscan@latest
      - run: roboscan scan --sarif --no-html . > roboscan.sarif
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: roboscan.sarif
      - run: roboscan scan --fail-on-critical .
      - uses: actions/upload-artifact@v4
        if: always()
        with:
          name: roboscan-report
          path: audit_report.html
`},
	"gitlab": {".gitlab-ci.yml", `stages: [scan]
roboscan:
  stage: scan
  image: golang:1.25
  script:
    - go install github.com/roboscan/roboscan@latest
    - roboscan scan --fail-on-critical --json-out audit_report.json .
  artifacts:
    when: always
    paths:
      - audit_report.html
      - audit_report.json
`},
	"bitbucket": {"bitbucket-pipelines.yml", `pipelines:
  default:
    - step:
        name: RoboScan
        image: golang:1.25
        caches:
          - go
        script:
          - go install github.com/roboscan/roboscan@latest
          - roboscan scan --fail-on-critical --json-out audit_report.json .
        artifacts:
          - audit_report.html
          - audit_report.json
`},
	"azure": {"azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/roboscan/roboscan@latest
    $(go env GOPATH)/bin/roboscan scan --fail-on-critical --json-out audit_report.json .
  displayName: 'RoboScan'
- publish: audit_report.html
  artifact: roboscan-report
  condition: succeededOrFailed()
`},
}

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template that fails on CRITICAL findings",
		RunE: func(_ *cobra.Command, _ []string) error {
			tpl, ok := ciTemplates[provider]
			if !ok {
				return fmt.Errorf("unknown --provider %q. Supported: github, gitlab, bitbucket, azure", provider)
			}
			if err := os.MkdirAll(filepath.Dir(tpl.path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(tpl.path, []byte(tpl.content), 0644); err != nil {
				return err
			}
			fmt.Println("Wrote", tpl.path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	if err := initCmd.MarkFlagRequired("provider"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not mark --provider as required:", err)
	}
	ci.AddCommand(initCmd)
}
