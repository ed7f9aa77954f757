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

package structdb

import "errors"

var (
	ErrKeyIsEmpty           = errors.New("the key is empty")
	ErrWrongTypeOperation   = errors.New("operation against a key holding the wrong kind of value")
	ErrInvalidUTF8Key       = errors.New("the key is not a valid UTF-8 string")
	ErrInvalidScoreLength   = errors.New("invalid score length")
	ErrCorruptedMeta        = errors.New("key metadata record is corrupted")
	ErrDatabaseIsUsing      = errors.New("database directory is being used by another process")
	ErrDirectoryPathIsEmpty = errors.New("database directory path is empty")
)
