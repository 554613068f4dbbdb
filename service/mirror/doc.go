// Package mirror copies and removes case directory trees. Regular file
// content and directory creation go through afs; symbolic links are recreated
// as links rather than followed.
package mirror
