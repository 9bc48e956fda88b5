// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"github.com/geraldfingburke/verinews/internal/repository"
)

// buildArticleWhereClause builds a WHERE clause and its positional
// arguments for ArticleFilters. tableAlias, when non-empty, qualifies
// every column reference (used by queries that join against events).
// Returns an empty string when no filter is set.
func buildArticleWhereClause(filters repository.ArticleFilters, tableAlias string) (clause string, args []interface{}) {
	prefix := ""
	if tableAlias != "" {
		prefix = tableAlias + "."
	}

	var conditions []string
	paramIndex := 1

	if filters.SourceDomain != nil {
		conditions = append(conditions, fmt.Sprintf("%ssource_domain = $%d", prefix, paramIndex))
		args = append(args, *filters.SourceDomain)
		paramIndex++
	}
	if filters.ClusterID != nil {
		conditions = append(conditions, fmt.Sprintf("%scluster_id = $%d", prefix, paramIndex))
		args = append(args, *filters.ClusterID)
		paramIndex++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf(`%s"timestamp" >= $%d`, prefix, paramIndex))
		args = append(args, *filters.From)
		paramIndex++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf(`%s"timestamp" <= $%d`, prefix, paramIndex))
		args = append(args, *filters.To)
		paramIndex++
	}
	if filters.Language != nil {
		conditions = append(conditions, fmt.Sprintf("%slanguage = $%d", prefix, paramIndex))
		args = append(args, *filters.Language)
		paramIndex++
	}
	if filters.FactCheck != nil {
		conditions = append(conditions, fmt.Sprintf("%sfact_check_status = $%d", prefix, paramIndex))
		args = append(args, *filters.FactCheck)
		paramIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
