package dbenum

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/infra/db/mongodb"
)

// EnumMongoRows runs filter over collName (looked up through the
// teacher's own infra/db/mongodb connection wrapper) and pages the
// matching documents into Rows chunks via enum.Bracket around a
// *mongo.Cursor.
func EnumMongoRows[A any](ctx context.Context, client *mongodb.Client, collName string, filter any, batchSize int) enum.Onum[Rows, A] {
	coll := client.Coll(collName)
	return enum.Bracket[Rows, A, *mongo.Cursor](
		func() (*mongo.Cursor, error) { return coll.Find(ctx, filter) },
		func(cur *mongo.Cursor) error { return cur.Close(ctx) },
		func(cur *mongo.Cursor) enum.Onum[Rows, A] {
			next := func() (Row, error) {
				if !cur.Next(ctx) {
					if err := cur.Err(); err != nil {
						return nil, err
					}
					return nil, io.EOF
				}
				var doc bson.M
				if err := cur.Decode(&doc); err != nil {
					return nil, err
				}
				return Row(doc), nil
			}
			return enum.BuildOnum[Rows, A](PageRows(next, batchSize))
		},
	)
}

// EnumMongoChangeStream pages change-stream events for coll into Rows
// chunks, one event per row. A change stream is normally tailable —
// it only runs dry (and lets PageRows see io.EOF) when ctx is
// cancelled or the stream itself errors out.
func EnumMongoChangeStream[A any](ctx context.Context, client *mongodb.Client, collName string, pipeline any, batchSize int) enum.Onum[Rows, A] {
	coll := client.Coll(collName)
	return enum.Bracket[Rows, A, *mongo.ChangeStream](
		func() (*mongo.ChangeStream, error) { return coll.Watch(ctx, pipeline) },
		func(cs *mongo.ChangeStream) error { return cs.Close(ctx) },
		func(cs *mongo.ChangeStream) enum.Onum[Rows, A] {
			next := func() (Row, error) {
				if !cs.Next(ctx) {
					if err := cs.Err(); err != nil {
						return nil, err
					}
					return nil, io.EOF
				}
				var doc bson.M
				if err := cs.Decode(&doc); err != nil {
					return nil, err
				}
				return Row(doc), nil
			}
			return enum.BuildOnum[Rows, A](PageRows(next, batchSize))
		},
	)
}
