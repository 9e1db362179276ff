// Package sorter reads a file of person names, orders them by last name and
// then given names, and writes the result.
//
// Two strategies produce the same output. BinaryTree keeps names ordered as
// they are read by inserting them into an AVL tree; Collection gathers them
// in a slice and sorts once before writing. Lines that are blank or do not
// hold two to four name parts are skipped with a warning.
//
//	svc, err := sorter.New(sorter.BinaryTree)
//	if err != nil {
//	    return err
//	}
//
//	res, err := svc.SortFile(ctx, "names.txt", "sorted-names-list.txt")
package sorter
