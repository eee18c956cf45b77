package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/de-tools/iam-atlas/pkg/services/awsiam"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	account domain.Account
	err     error
}

func (s *stubFetcher) Fetch(_ context.Context) (domain.Account, error) {
	return s.account, s.err
}

func newFetchTestCmd(fc *FetchCmd) *cobra.Command {
	cmd := &cobra.Command{RunE: fc.run}
	cmd.SetContext(context.Background())
	return cmd
}

func TestFetchCmd_WritesDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	var buf bytes.Buffer

	fc := &FetchCmd{
		outputPath: path,
		timeout:    5,
		output:     &buf,
		newFetcher: func(_ context.Context) (awsiam.Fetcher, error) {
			return &stubFetcher{account: domain.Account{
				Users: map[string]domain.User{
					"AIDAEXAMPLEUSER00001": {UserID: "AIDAEXAMPLEUSER00001", UserName: "deploy-bot"},
				},
				Roles:    map[string]domain.Role{},
				Policies: map[string]domain.Policy{},
				Groups:   map[string]domain.Group{},
			}}, nil
		},
	}

	require.NoError(t, fc.run(newFetchTestCmd(fc), nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var dataset api.AccountData
	require.NoError(t, json.Unmarshal(raw, &dataset))
	assert.Contains(t, dataset.Users, "AIDAEXAMPLEUSER00001")
	assert.Equal(t, "deploy-bot", dataset.Users["AIDAEXAMPLEUSER00001"].UserName)

	assert.Contains(t, buf.String(), "Wrote 1 users, 0 roles, 0 policies, 0 groups")
}

func TestFetchCmd_FetchFailure(t *testing.T) {
	fc := &FetchCmd{
		outputPath: filepath.Join(t.TempDir(), "export.json"),
		timeout:    5,
		output:     &bytes.Buffer{},
		newFetcher: func(_ context.Context) (awsiam.Fetcher, error) {
			return &stubFetcher{err: errors.New("not authorized")}, nil
		},
	}

	err := fc.run(newFetchTestCmd(fc), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch authorization details")
}
