package config

import (
	"github.com/voyahchat/sitegen/internal/foundation/normalization"
)

// AnchorCase selects the letter case applied to generated anchors.
type AnchorCase string

const (
	AnchorCaseLower AnchorCase = "lower"
	AnchorCaseUpper AnchorCase = "upper"
	AnchorCaseKeep  AnchorCase = "keep"
)

var anchorCaseNormalizer = normalization.New(map[string]AnchorCase{
	"lower": AnchorCaseLower,
	"upper": AnchorCaseUpper,
	"keep":  AnchorCaseKeep,
}, AnchorCaseLower)

// NormalizeAnchorCase maps free-form input onto a supported anchor case.
func NormalizeAnchorCase(raw string) AnchorCase {
	return anchorCaseNormalizer.Normalize(raw)
}

// DeployMethod selects how the rendered site is published.
type DeployMethod string

const (
	DeployMethodDir DeployMethod = "dir"
	DeployMethodGit DeployMethod = "git"
)

var deployMethodNormalizer = normalization.New(map[string]DeployMethod{
	"dir": DeployMethodDir,
	"git": DeployMethodGit,
}, DeployMethodDir)

// NormalizeDeployMethod maps free-form input onto a supported method.
func NormalizeDeployMethod(raw string) DeployMethod {
	return deployMethodNormalizer.Normalize(raw)
}

// AuthType enumerates supported git deploy credentials.
type AuthType string

const (
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

var authTypeNormalizer = normalization.New(map[string]AuthType{
	"ssh":   AuthTypeSSH,
	"token": AuthTypeToken,
	"basic": AuthTypeBasic,
}, AuthTypeToken)

// NormalizeAuthType maps free-form input onto a supported credential type.
func NormalizeAuthType(raw string) AuthType {
	return authTypeNormalizer.Normalize(raw)
}
