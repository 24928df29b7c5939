// Package query validates findings and run queries and applies the
// configured defaults before they reach a storage backend.
//
//	v := query.New(cfg.Findings.Query)
//	if err := v.Validate(q); err != nil {
//	    return err
//	}
//	v.ApplyDefaults(q)
package query
