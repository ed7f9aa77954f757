/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/structdb/structdb"
	"github.com/structdb/structdb/score"
	"github.com/tidwall/redcon"
)

func newWrongNumberOfArgsError(cmd string) error {
	return fmt.Errorf("ERR wrong number of arguments for '%s' command", cmd)
}

type cmdHandler func(cli *StructDBClient, args [][]byte) (interface{}, error)

var supportedCommands = map[string]cmdHandler{
	"hset":      hset,
	"hget":      hget,
	"hdel":      hdel,
	"sadd":      sadd,
	"sismember": sismember,
	"srem":      srem,
	"lpush":     lpush,
	"rpush":     rpush,
	"lpop":      lpop,
	"rpop":      rpop,
	"zadd":      zadd,
	"zscore":    zscore,
	"zrem":      zrem,
	"del":       del,
	"keys":      keys,
}

type StructDBClient struct {
	server *StructDBServer
	db     *structdb.Database
}

func execClientCommand(conn redcon.Conn, cmd redcon.Command) {
	command := strings.ToLower(string(cmd.Args[0]))

	client, _ := conn.Context().(*StructDBClient)

	switch command {
	case "quit":
		_ = conn.Close()
	case "ping":
		conn.WriteString("PONG")
	default:
		cmdFunc, ok := supportedCommands[command]
		if !ok {
			conn.WriteError("Err unsupported command: '" + command + "'")
			return
		}

		result, err := cmdFunc(client, cmd.Args[1:])
		if err != nil {
			conn.WriteError(err.Error())
			return
		}

		conn.WriteAny(result)
	}
}

func boolToInt(ok bool) redcon.SimpleInt {
	if ok {
		return redcon.SimpleInt(1)
	}
	return redcon.SimpleInt(0)
}

func hset(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 3 {
		return nil, newWrongNumberOfArgsError("hset")
	}

	if err := cli.db.MapPut(args[0], args[1], args[2]); err != nil {
		return nil, err
	}

	return redcon.SimpleString("OK"), nil
}

func hget(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("hget")
	}

	return cli.db.MapGet(args[0], args[1])
}

func hdel(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("hdel")
	}

	ok, err := cli.db.MapDelete(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return boolToInt(ok), nil
}

func sadd(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("sadd")
	}

	ok, err := cli.db.SetAdd(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return boolToInt(ok), nil
}

func sismember(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("sismember")
	}

	ok, err := cli.db.SetIsMember(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return boolToInt(ok), nil
}

func srem(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("srem")
	}

	ok, err := cli.db.SetDelete(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return boolToInt(ok), nil
}

func lpush(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("lpush")
	}

	count, err := cli.db.ListLeftPush(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return redcon.SimpleInt(count), nil
}

func rpush(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("rpush")
	}

	count, err := cli.db.ListRightPush(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return redcon.SimpleInt(count), nil
}

func lpop(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 1 {
		return nil, newWrongNumberOfArgsError("lpop")
	}

	return cli.db.ListLeftPop(args[0])
}

func rpop(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 1 {
		return nil, newWrongNumberOfArgsError("rpop")
	}

	return cli.db.ListRightPop(args[0])
}

func zadd(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 3 {
		return nil, newWrongNumberOfArgsError("zadd")
	}

	value, err := strconv.ParseFloat(string(args[1]), 64)
	if err != nil {
		return nil, err
	}

	count, err := cli.db.SortedSetAdd(args[0], score.Float64(value), args[2])
	if err != nil {
		return nil, err
	}

	return redcon.SimpleInt(count), nil
}

func zscore(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("zscore")
	}

	encoded, err := cli.db.SortedSetScore(args[0], args[1])
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, nil
	}

	return []byte(strconv.FormatFloat(score.Float64FromBytes(encoded), 'f', -1, 64)), nil
}

func zrem(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 2 {
		return nil, newWrongNumberOfArgsError("zrem")
	}

	ok, err := cli.db.SortedSetDelete(args[0], args[1])
	if err != nil {
		return nil, err
	}

	return boolToInt(ok), nil
}

func del(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 1 {
		return nil, newWrongNumberOfArgsError("del")
	}

	deleted, err := cli.db.DeleteAll(args[0])
	if err != nil {
		return nil, err
	}

	return redcon.SimpleInt(deleted), nil
}

func keys(cli *StructDBClient, args [][]byte) (interface{}, error) {
	if len(args) != 0 {
		return nil, newWrongNumberOfArgsError("keys")
	}

	entries, err := cli.db.Keys()
	if err != nil {
		return nil, err
	}

	result := make([][]byte, len(entries))
	for i, entry := range entries {
		result[i] = []byte(entry.Key)
	}

	return result, nil
}
