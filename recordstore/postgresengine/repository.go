package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine/internal/adapters"
)

const (
	dialectPostgres = "postgres"

	logMsgBuildQueryFailed   = "failed to build sql query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsReturned       = "repository operation: rows returned"
	logMsgRowsAffected       = "repository operation: rows affected"
	logMsgNoRowMatched       = "no row matched the predicate"
	logMsgSQLExecuted        = "executed sql for: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrTable             = "table"
	logAttrRowCount          = "row_count"
	logAttrRowsAffected      = "rows_affected"
	logAttrDurationMS        = "duration_ms"
	likeWildcard             = "%"
	containmentTagExpression = "? @> ?::jsonb"
	castJsonbExpression      = "?::jsonb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// likeEscaper neutralizes LIKE metacharacters in user keywords, so a keyword
// containing % or _ matches those characters literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type sqlQueryString = string

// Repository provides the uniform CRUD/query surface over one entity table.
// It is parameterized by the entity's row type and driven by its Schema, so a
// repository for a new entity is one Schema value away.
type Repository[T any] struct {
	db        adapters.DBAdapter
	schema    Schema[T]
	tableName string
	logger    Logger
}

// NewRepositoryFromPGXPool creates a Repository using a pgx connection pool.
func NewRepositoryFromPGXPool[T any](pool *pgxpool.Pool, schema Schema[T], options ...Option) (Repository[T], error) {
	if pool == nil {
		return Repository[T]{}, recordstore.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewPGXPoolAdapter(pool), schema, options...)
}

// NewRepositoryFromSQLDB creates a Repository using a standard library sql.DB.
func NewRepositoryFromSQLDB[T any](db *sql.DB, schema Schema[T], options ...Option) (Repository[T], error) {
	if db == nil {
		return Repository[T]{}, recordstore.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewSQLAdapter(db), schema, options...)
}

// NewRepositoryFromSQLX creates a Repository using a sqlx.DB.
func NewRepositoryFromSQLX[T any](db *sqlx.DB, schema Schema[T], options ...Option) (Repository[T], error) {
	if db == nil {
		return Repository[T]{}, recordstore.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewSQLXAdapter(db), schema, options...)
}

func newRepository[T any](db adapters.DBAdapter, schema Schema[T], options ...Option) (Repository[T], error) {
	if schema.Table == "" {
		return Repository[T]{}, recordstore.ErrEmptyTableName
	}

	applied := settings{tableName: schema.Table}

	for _, option := range options {
		if err := option(&applied); err != nil {
			return Repository[T]{}, err
		}
	}

	return Repository[T]{
		db:        db,
		schema:    schema,
		tableName: applied.tableName,
		logger:    applied.logger,
	}, nil
}

// Save inserts the row, or updates it in place when a row with the same id
// already exists. It returns the persisted representation re-read from the
// store. The creation timestamp is never overwritten on the update path.
func (r Repository[T]) Save(ctx context.Context, row T) (T, error) {
	var empty T

	record := r.schema.Record(row)

	updateRecord := goqu.Record{}
	for column, value := range record {
		if column != r.schema.createdAtColumn() {
			updateRecord[column] = value
		}
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(r.tableName).
		Rows(record).
		OnConflict(goqu.DoUpdate(r.schema.idColumn(), updateRecord))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return empty, r.buildQueryFailure(toSQLErr)
	}

	if _, execErr := r.executeStatement(ctx, sqlQuery); execErr != nil {
		return empty, execErr
	}

	persisted, found, findErr := r.FindOne(ctx, recordstore.Where().Eq(r.schema.idColumn(), r.schema.ID(row)))
	if findErr != nil {
		return empty, findErr
	}

	if !found {
		return empty, errors.Join(recordstore.ErrNotFound, errors.New("row vanished after save"))
	}

	return persisted, nil
}

// Exists reports whether at least one row matches the predicate.
func (r Repository[T]) Exists(ctx context.Context, where recordstore.Predicate) (bool, error) {
	total, err := r.Count(ctx, where)
	if err != nil {
		return false, err
	}

	return total > 0, nil
}

// FindOne returns the first row matching the predicate, with found=false (not
// an error) when nothing matches. At most one relation may be named for eager
// loading.
func (r Repository[T]) FindOne(ctx context.Context, where recordstore.Predicate, relation ...string) (T, bool, error) {
	var empty T

	selectStmt, scan, buildErr := r.buildSelect(where, relation...)
	if buildErr != nil {
		return empty, false, buildErr
	}

	sqlQuery, _, toSQLErr := selectStmt.Limit(1).ToSQL()
	if toSQLErr != nil {
		return empty, false, r.buildQueryFailure(toSQLErr)
	}

	rows, queryErr := r.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return empty, false, queryErr
	}
	defer r.closeRows(rows)

	if !rows.Next() {
		return empty, false, nil
	}

	row, scanErr := scan(rows)
	if scanErr != nil {
		return empty, false, r.scanFailure(scanErr)
	}

	return row, true, nil
}

// FindPaginated returns one page of rows plus the total count of rows matching
// the combined predicate. Page and size default to 1 and 10; ordering defaults
// to the creation timestamp, newest first.
func (r Repository[T]) FindPaginated(
	ctx context.Context,
	req recordstore.PageRequest,
	where recordstore.Predicate,
	relation ...string,
) (recordstore.Page[T], error) {

	var empty recordstore.Page[T]

	req = req.Normalized()

	if req.Filter != "" && req.FilterBy != "" {
		where = where.Eq(req.FilterBy, req.Filter)
	}

	selectStmt, scan, buildErr := r.buildSelect(where, relation...)
	if buildErr != nil {
		return empty, buildErr
	}

	orderColumn := req.OrderBy
	if orderColumn == "" {
		orderColumn = r.schema.createdAtColumn()
	}

	orderExpr := goqu.I(r.qualify(orderColumn, len(relation) > 0)).Desc()
	if req.Order == recordstore.Asc {
		orderExpr = goqu.I(r.qualify(orderColumn, len(relation) > 0)).Asc()
	}

	selectStmt = selectStmt.
		Order(orderExpr).
		Limit(uint(req.Size)).
		Offset(uint(req.Offset()))

	data, queryErr := r.queryAll(ctx, selectStmt, scan)
	if queryErr != nil {
		return empty, queryErr
	}

	total, countErr := r.Count(ctx, where)
	if countErr != nil {
		return empty, countErr
	}

	return recordstore.Page[T]{
		Data:       data,
		Pagination: recordstore.Pagination{Total: total, Size: req.Size, Page: req.Page},
	}, nil
}

// Search substring-matches the keyword against each of the requested columns
// (joined with OR), conjoins the AllOf predicate, disjoins every AnyOf
// alternative, optionally eager-loads one relation, and paginates the result.
func (r Repository[T]) Search(ctx context.Context, req recordstore.SearchRequest) (recordstore.Page[T], error) {
	var empty recordstore.Page[T]

	req = req.Normalized()
	qualify := req.Relation != ""

	keywordExpressions := make([]goqu.Expression, 0, len(req.Columns))
	for _, column := range req.Columns {
		keywordExpressions = append(
			keywordExpressions,
			goqu.I(r.qualify(column, qualify)).Like(likeWildcard+likeEscaper.Replace(req.Keyword)+likeWildcard),
		)
	}

	whereExpr := goqu.Expression(goqu.Or(keywordExpressions...))

	if !req.AllOf.IsEmpty() {
		allOfExpressions, buildErr := r.whereExpressions(req.AllOf, qualify)
		if buildErr != nil {
			return empty, buildErr
		}

		whereExpr = goqu.And(whereExpr, goqu.And(allOfExpressions...))
	}

	for _, alternative := range req.AnyOf {
		alternativeExpressions, buildErr := r.whereExpressions(alternative, qualify)
		if buildErr != nil {
			return empty, buildErr
		}

		whereExpr = goqu.Or(whereExpr, goqu.And(alternativeExpressions...))
	}

	selectStmt, scan, buildErr := r.buildSelectWithExpressions(whereExpr, req.Relation)
	if buildErr != nil {
		return empty, buildErr
	}

	selectStmt = selectStmt.
		Limit(uint(req.Size)).
		Offset(uint(req.Offset()))

	data, queryErr := r.queryAll(ctx, selectStmt, scan)
	if queryErr != nil {
		return empty, queryErr
	}

	total, countErr := r.countWithExpressions(ctx, whereExpr)
	if countErr != nil {
		return empty, countErr
	}

	return recordstore.Page[T]{
		Data:       data,
		Pagination: recordstore.Pagination{Total: total, Size: req.Size, Page: req.Page},
	}, nil
}

// FindOneAndUpdate applies a partial column update to the rows matching the
// predicate. It fails with recordstore.ErrNotFound when nothing matched, and
// re-reads the updated row on success.
func (r Repository[T]) FindOneAndUpdate(ctx context.Context, where recordstore.Predicate, fields recordstore.Fields) (T, error) {
	var empty T

	rowsAffected, execErr := r.UpdateMany(ctx, where, fields)
	if execErr != nil {
		return empty, execErr
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.Warn(logMsgNoRowMatched, logAttrTable, r.tableName)
		}

		return empty, recordstore.ErrNotFound
	}

	row, found, findErr := r.FindOne(ctx, where)
	if findErr != nil {
		return empty, findErr
	}

	if !found {
		// The update moved the row out of the predicate's reach.
		return empty, recordstore.ErrNotFound
	}

	return row, nil
}

// UpdateMany applies a partial column update to all rows matching the
// predicate and returns the affected-row count without any not-found check.
func (r Repository[T]) UpdateMany(ctx context.Context, where recordstore.Predicate, fields recordstore.Fields) (int64, error) {
	whereExpressions, buildErr := r.whereExpressions(where, false)
	if buildErr != nil {
		return 0, buildErr
	}

	record, recordErr := r.updateRecord(fields)
	if recordErr != nil {
		return 0, recordErr
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(r.tableName).
		Set(record).
		Where(whereExpressions...)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return 0, r.buildQueryFailure(toSQLErr)
	}

	return r.executeStatement(ctx, sqlQuery)
}

// FindOneAndDelete removes the rows matching the predicate. The outcome flag
// reports whether at least one row was removed; a miss is not an error.
func (r Repository[T]) FindOneAndDelete(ctx context.Context, where recordstore.Predicate) (recordstore.DeleteResult, error) {
	whereExpressions, buildErr := r.whereExpressions(where, false)
	if buildErr != nil {
		return recordstore.DeleteResult{}, buildErr
	}

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(r.tableName).
		Where(whereExpressions...)

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return recordstore.DeleteResult{}, r.buildQueryFailure(toSQLErr)
	}

	rowsAffected, execErr := r.executeStatement(ctx, sqlQuery)
	if execErr != nil {
		return recordstore.DeleteResult{}, execErr
	}

	return recordstore.DeleteResult{Status: rowsAffected > 0}, nil
}

// Count returns the number of rows matching the optional predicate.
func (r Repository[T]) Count(ctx context.Context, where ...recordstore.Predicate) (int64, error) {
	combined := recordstore.Where()
	if len(where) > 0 {
		combined = where[0]
	}

	whereExpressions, buildErr := r.whereExpressions(combined, false)
	if buildErr != nil {
		return 0, buildErr
	}

	return r.countWithExpressions(ctx, whereExpressions...)
}

/***** query building *****/

// buildSelect assembles the SELECT for the predicate plus, when a relation is
// named, the LEFT JOIN and the matching scan function.
func (r Repository[T]) buildSelect(
	where recordstore.Predicate,
	relation ...string,
) (*goqu.SelectDataset, func(scan RowScanner) (T, error), error) {

	qualify := len(relation) > 0

	whereExpressions, buildErr := r.whereExpressions(where, qualify)
	if buildErr != nil {
		return nil, nil, buildErr
	}

	relationName := ""
	if qualify {
		relationName = relation[0]
	}

	return r.buildSelectWithExpressions(goqu.And(whereExpressions...), relationName)
}

func (r Repository[T]) buildSelectWithExpressions(
	whereExpr goqu.Expression,
	relationName string,
) (*goqu.SelectDataset, func(scan RowScanner) (T, error), error) {

	builder := goqu.Dialect(dialectPostgres)

	if relationName == "" {
		selectColumns := make([]any, 0, len(r.schema.Columns))
		for _, column := range r.schema.Columns {
			selectColumns = append(selectColumns, column)
		}

		selectStmt := builder.
			From(r.tableName).
			Select(selectColumns...).
			Where(whereExpr)

		return selectStmt, r.schema.Scan, nil
	}

	rel, known := r.schema.relationNamed(relationName)
	if !known {
		return nil, nil, errors.Join(recordstore.ErrBuildingQueryFailed, errors.New("unknown relation: "+relationName))
	}

	scan, hasScan := r.schema.ScanWith[relationName]
	if !hasScan {
		return nil, nil, errors.Join(recordstore.ErrBuildingQueryFailed, errors.New("no scan function for relation: "+relationName))
	}

	selectColumns := make([]any, 0, len(r.schema.Columns)+len(rel.Columns))
	for _, column := range r.schema.Columns {
		selectColumns = append(selectColumns, goqu.I(r.tableName+"."+column))
	}
	for _, column := range rel.Columns {
		selectColumns = append(selectColumns, goqu.I(rel.Table+"."+column))
	}

	selectStmt := builder.
		From(r.tableName).
		Select(selectColumns...).
		LeftJoin(
			goqu.T(rel.Table),
			goqu.On(goqu.I(r.tableName+"."+rel.LocalColumn).Eq(goqu.I(rel.Table+"."+rel.ForeignColumn))),
		).
		Where(whereExpr)

	return selectStmt, scan, nil
}

// whereExpressions converts the predicate's conditions into goqu expressions.
// Equality against a tag column becomes a jsonb containment match.
func (r Repository[T]) whereExpressions(where recordstore.Predicate, qualify bool) ([]goqu.Expression, error) {
	expressions := make([]goqu.Expression, 0, len(where.Conditions()))

	for _, condition := range where.Conditions() {
		column := r.qualify(condition.Column(), qualify)

		switch {
		case condition.Compare() == recordstore.CompareGreaterThan:
			expressions = append(expressions, goqu.I(column).Gt(condition.Value()))

		case r.schema.isTagColumn(condition.Column()):
			payload, marshalErr := json.Marshal([]any{condition.Value()})
			if marshalErr != nil {
				return nil, r.buildQueryFailure(marshalErr)
			}

			expressions = append(expressions, goqu.L(containmentTagExpression, goqu.I(column), string(payload)))

		default:
			expressions = append(expressions, goqu.I(column).Eq(condition.Value()))
		}
	}

	return expressions, nil
}

func (r Repository[T]) updateRecord(fields recordstore.Fields) (goqu.Record, error) {
	record := goqu.Record{}

	for column, value := range fields {
		if delta, isDelta := value.(recordstore.Delta); isDelta {
			record[column] = goqu.L("? + ?", goqu.I(column), delta.By)
			continue
		}

		if r.schema.isTagColumn(column) {
			payload, marshalErr := json.Marshal(value)
			if marshalErr != nil {
				return nil, r.buildQueryFailure(marshalErr)
			}

			record[column] = goqu.L(castJsonbExpression, string(payload))
			continue
		}

		record[column] = value
	}

	return record, nil
}

func (r Repository[T]) qualify(column recordstore.ColumnNameString, qualify bool) string {
	if qualify {
		return r.tableName + "." + column
	}

	return column
}

/***** execution *****/

func (r Repository[T]) queryAll(
	ctx context.Context,
	selectStmt *goqu.SelectDataset,
	scan func(scan RowScanner) (T, error),
) ([]T, error) {

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, r.buildQueryFailure(toSQLErr)
	}

	rows, queryErr := r.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.closeRows(rows)

	data := make([]T, 0)

	for rows.Next() {
		row, scanErr := scan(rows)
		if scanErr != nil {
			return nil, r.scanFailure(scanErr)
		}

		data = append(data, row)
	}

	r.logOperation(logMsgRowsReturned, logAttrTable, r.tableName, logAttrRowCount, len(data))

	return data, nil
}

func (r Repository[T]) countWithExpressions(ctx context.Context, whereExpressions ...goqu.Expression) (int64, error) {
	countStmt := goqu.Dialect(dialectPostgres).
		From(r.tableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(whereExpressions...)

	sqlQuery, _, toSQLErr := countStmt.ToSQL()
	if toSQLErr != nil {
		return 0, r.buildQueryFailure(toSQLErr)
	}

	rows, queryErr := r.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return 0, queryErr
	}
	defer r.closeRows(rows)

	var total int64

	if rows.Next() {
		if scanErr := rows.Scan(&total); scanErr != nil {
			return 0, r.scanFailure(scanErr)
		}
	}

	return total, nil
}

func (r Repository[T]) executeQuery(ctx context.Context, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := r.db.Query(ctx, sqlQuery)
	r.logQueryWithDuration(sqlQuery, "query", time.Since(start))

	if queryErr != nil {
		if r.logger != nil {
			r.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, translateStorageError(queryErr, recordstore.ErrQueryingRowsFailed)
	}

	return rows, nil
}

func (r Repository[T]) executeStatement(ctx context.Context, sqlQuery sqlQueryString) (int64, error) {
	start := time.Now()
	rowsAffected, execErr := r.db.Exec(ctx, sqlQuery)
	r.logQueryWithDuration(sqlQuery, "exec", time.Since(start))

	if execErr != nil {
		if r.logger != nil {
			r.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, translateStorageError(execErr, recordstore.ErrExecutingStatementFailed)
	}

	r.logOperation(logMsgRowsAffected, logAttrTable, r.tableName, logAttrRowsAffected, rowsAffected)

	return rowsAffected, nil
}

func (r Repository[T]) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if r.logger != nil {
			r.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (r Repository[T]) buildQueryFailure(err error) error {
	if r.logger != nil {
		r.logger.Error(logMsgBuildQueryFailed, logAttrError, err.Error(), logAttrTable, r.tableName)
	}

	return errors.Join(recordstore.ErrBuildingQueryFailed, err)
}

func (r Repository[T]) scanFailure(err error) error {
	if r.logger != nil {
		r.logger.Error(logMsgScanRowFailed, logAttrError, err.Error(), logAttrTable, r.tableName)
	}

	return errors.Join(recordstore.ErrScanningDBRowFailed, err)
}

func (r Repository[T]) logQueryWithDuration(sqlQuery sqlQueryString, action string, duration time.Duration) {
	if r.logger != nil {
		r.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (r Repository[T]) logOperation(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
